package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrEmptyEndpoint is returned when cloud mode has no endpoint configured.
	ErrEmptyEndpoint = errors.New("database: remote endpoint is empty")

	// ErrUnsupportedEndpoint is returned for an endpoint scheme with no driver.
	ErrUnsupportedEndpoint = errors.New("database: unsupported endpoint scheme")
)

// ParseEndpoint turns the operator-facing endpoint URL plus a separately stored
// credential into a gorm driver name and DSN. The scheme selects the driver:
//
//	postgres://pos@db.example.com:5432/pos?sslmode=require
//	mysql://pos@db.example.com:3306/pos
//	sqlserver://pos@db.example.com:1433?database=pos
//	sqlite:///var/lib/till/remote.db
//
// The credential is the password and is never part of the stored endpoint.
func ParseEndpoint(endpoint, credential string) (driver, dsn string, err error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", "", ErrEmptyEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", "", fmt.Errorf("database: parse endpoint: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		withPassword(u, credential)
		u.Scheme = "postgres"
		return "postgres", u.String(), nil

	case "sqlserver":
		withPassword(u, credential)
		return "sqlserver", u.String(), nil

	case "mysql":
		return "mysql", mysqlDSN(u, credential), nil

	case "sqlite":
		path := u.Host + u.Path
		if path == "" {
			return "", "", fmt.Errorf("%w: sqlite endpoint has no path", ErrUnsupportedEndpoint)
		}
		return "sqlite", path, nil

	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedEndpoint, u.Scheme)
	}
}

func withPassword(u *url.URL, credential string) {
	if credential == "" {
		return
	}
	user := ""
	if u.User != nil {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, credential)
}

// mysqlDSN renders the go-sql-driver form user:pass@tcp(host:port)/db?params.
func mysqlDSN(u *url.URL, credential string) string {
	user := ""
	if u.User != nil {
		user = u.User.Username()
	}
	auth := user
	if credential != "" {
		auth += ":" + credential
	}

	q := u.Query()
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	return fmt.Sprintf("%s@tcp(%s)/%s?%s", auth, u.Host, strings.TrimPrefix(u.Path, "/"), q.Encode())
}
