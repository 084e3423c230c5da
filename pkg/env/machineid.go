// Package env identifies the machine a robot runs on.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// idLength is the number of hex digits kept from the protected ID.
const idLength = 12

// RobotID derives a stable ID for this machine, keyed by app so the raw
// machine ID never leaves the host. Falls back to the hostname when the
// machine ID is unavailable.
func RobotID(app string) string {
	id, err := machineid.ProtectedID(app)
	if err == nil && len(id) >= idLength {
		return id[:idLength]
	}
	host, herr := os.Hostname()
	if herr != nil || host == "" {
		host = "robot"
	}
	glog.Warningf("machine id unavailable (%v), using %q", err, host)
	return host
}
