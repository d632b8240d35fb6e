package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvUsesEnvironmentValue(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	out := expandEnv("host: ${POSTGRES_HOST:localhost}")
	assert.Equal(t, "host: db.internal", out)
}

func TestExpandEnvFallsBackToDefault(t *testing.T) {
	out := expandEnv("host: ${UNSET_TEST_VAR:localhost}\nport: ${UNSET_TEST_PORT:5432}")
	assert.Equal(t, "host: localhost\nport: 5432", out)
}

func TestExpandEnvEmptyDefault(t *testing.T) {
	out := expandEnv("password: ${UNSET_TEST_PASSWORD:}")
	assert.Equal(t, "password: ", out)
}

func TestExpandEnvNoDefaultKeepsPlaceholder(t *testing.T) {
	out := expandEnv("key: ${UNSET_TEST_NO_DEFAULT}")
	assert.Equal(t, "key: ${UNSET_TEST_NO_DEFAULT}", out)
}

func TestExpandEnvMultipleOccurrences(t *testing.T) {
	t.Setenv("REGION_TEST_VAR", "auto")
	out := expandEnv("a: ${REGION_TEST_VAR:us}\nb: ${REGION_TEST_VAR:eu}")
	assert.Equal(t, "a: auto\nb: auto", out)
}
