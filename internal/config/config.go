// Package config holds the immutable snapshot produced from CLI flags at
// startup and shared by reference with every connection handler.
package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RoleKind tags which variant of Role is active.
type RoleKind int

const (
	// RolePrimary serves as the replication source of truth.
	RolePrimary RoleKind = iota
	// RoleReplica performs the handshake in internal/replica at startup.
	RoleReplica
)

// Role is either Primary(ID) or Replica(PrimaryHost, PrimaryPort).
type Role struct {
	Kind RoleKind

	// ID is the 40-hex-char replication id, set only when Kind == RolePrimary.
	ID string

	// PrimaryHost and PrimaryPort identify the upstream primary, set only
	// when Kind == RoleReplica.
	PrimaryHost string
	PrimaryPort uint16
}

// Config is the immutable, process-wide configuration snapshot.
type Config struct {
	Port        uint16
	Role        Role
	MetricsAddr string
	LogLevel    string
}

// ParseReplicaOf splits the single "<host> <port>" token accepted by
// --replicaof into its two whitespace-separated fields.
func ParseReplicaOf(token string) (host string, port uint16, err error) {
	fields := strings.Fields(token)
	if len(fields) != 2 {
		return "", 0, errors.Errorf("--replicaof expects \"<host> <port>\", got %q", token)
	}
	p, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return "", 0, errors.Wrapf(err, "--replicaof port %q is not a valid 16-bit port", fields[1])
	}
	return fields[0], uint16(p), nil
}
