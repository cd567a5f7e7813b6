package build

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestDockerComposeServiceConfiguration(t *testing.T) {
	// Read docker-compose.yaml file
	composeFile, err := os.ReadFile("../docker-compose.yaml")
	assert.NoError(t, err)

	var compose struct {
		Services map[string]struct {
			Image       string   `yaml:"image"`
			Environment []string `yaml:"environment"`
			Volumes     []string `yaml:"volumes"`
			Deploy      struct {
				Resources struct {
					Limits struct {
						Memory string `yaml:"memory"`
					} `yaml:"limits"`
					Reservations struct {
						Memory string `yaml:"memory"`
					} `yaml:"reservations"`
				} `yaml:"resources"`
			} `yaml:"deploy"`
			Restart string `yaml:"restart"`
		} `yaml:"services"`
	}

	err = yaml.Unmarshal(composeFile, &compose)
	assert.NoError(t, err)

	service, exists := compose.Services["captionforge"]
	assert.True(t, exists, "captionforge service should exist")

	// Check environment variables
	envVars := make(map[string]string)
	for _, env := range service.Environment {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			envVars[parts[0]] = parts[1]
		}
	}

	// Verify the config file is mounted and pointed at
	assert.Contains(t, envVars, "CONFIG_PATH", "CONFIG_PATH should be configured")
	assert.Equal(t, "/config/config.yaml", envVars["CONFIG_PATH"], "CONFIG_PATH should point at the mounted config")

	// Verify the image tag matches the released version
	assert.Equal(t, "captionforge:1.2", service.Image, "Image tag should match the release version")

	// Verify resource limits for a batch synthesis run
	assert.Equal(t, "256M", service.Deploy.Resources.Limits.Memory, "Memory limit should be 256M")
	assert.Equal(t, "128M", service.Deploy.Resources.Reservations.Memory, "Memory reservation should be 128M")

	// Verify input volumes are read-only and the output volume is writable
	var configMounted, dataReadOnly, outWritable bool
	for _, volume := range service.Volumes {
		if strings.HasSuffix(volume, "/config/config.yaml:ro") {
			configMounted = true
		}
		if strings.HasSuffix(volume, "/data:ro") {
			dataReadOnly = true
		}
		if strings.HasSuffix(volume, "/app/out") {
			outWritable = true
		}
	}
	assert.True(t, configMounted, "Config file should be mounted read-only")
	assert.True(t, dataReadOnly, "Input data should be mounted read-only")
	assert.True(t, outWritable, "Output directory should be writable")

	// Verify the one-shot batch run does not restart
	assert.Equal(t, "no", service.Restart, "Batch runs should not restart")
}
