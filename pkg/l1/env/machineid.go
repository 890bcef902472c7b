package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID scopes the hashed machine ID to this project.
const AppID = "servo.go"

// MachineID retrieves the unique ID identifying the machine. The ID is
// hashed with AppID so the raw machine ID is never published. The host
// name is used where no machine ID exists.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		return id[:16]
	}
	glog.V(1).Infof("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}
