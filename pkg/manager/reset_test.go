package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetLoopback(t *testing.T) {
	runner := newFakeRunner()
	m, _ := newTestManager(runner)

	done := m.Reset(splitRegistry(), []string{"lo"}, ResetOptions{})

	assert.Equal(t, []string{"lo"}, done)
	assert.Equal(t, []string{
		"flush lo",
		"addr lo 127.0.0.1/8",
		"addr lo ::1/128",
		"config-delete lo",
		"config-create lo",
		"up lo",
	}, runner.sideEffects())
}

func TestResetShutdownLeavesPortDown(t *testing.T) {
	runner := newFakeRunner()
	m, _ := newTestManager(runner)

	m.Reset(splitRegistry(), []string{"swp2"}, ResetOptions{Shutdown: true})

	assert.Equal(t, []string{
		"flush swp2",
		"down swp2",
		"config-delete swp2",
		"config-create swp2",
	}, runner.sideEffects())
}

func TestResetAllHonoursSkip(t *testing.T) {
	runner := newFakeRunner()
	m, _ := newTestManager(runner)

	done := m.Reset(splitRegistry(), []string{"all"}, ResetOptions{Skip: []string{"lo", "swp5", "swp3s1"}, Shutdown: true})

	assert.Equal(t, []string{"swp1s0", "swp1s1", "swp2", "swp3s0", "swp3s2", "swp3s3"}, done)
}

func TestResetNilSkipMeansNone(t *testing.T) {
	runner := newFakeRunner()
	m, _ := newTestManager(runner)
	reg := splitRegistry()

	done := m.Reset(reg, []string{"all"}, ResetOptions{})

	assert.Equal(t, reg.Names(), done)
}

func TestResetContinuesPastFailures(t *testing.T) {
	runner := newFakeRunner()
	runner.failing["flush swp2"] = true
	runner.failing["down swp2"] = true
	runner.failing["config-delete swp2"] = true
	m, _ := newTestManager(runner)

	done := m.Reset(splitRegistry(), []string{"swp2", "1", "nope"}, ResetOptions{})

	assert.Equal(t, []string{"swp2", "swp1s0", "swp1s1"}, done)
	assert.Equal(t, []string{
		"flush swp2", "down swp2", "config-delete swp2", "config-create swp2", "up swp2",
		"flush swp1s0", "down swp1s0", "config-delete swp1s0", "config-create swp1s0", "up swp1s0",
		"flush swp1s1", "down swp1s1", "config-delete swp1s1", "config-create swp1s1", "up swp1s1",
	}, runner.sideEffects())
}
