package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRobotIDStable(t *testing.T) {
	id := RobotID("motion")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RobotID("motion"))
}
