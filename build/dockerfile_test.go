package build

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDockerfileUsesMultiStageBuild(t *testing.T) {
	// Read Dockerfile content
	dockerfile, err := os.ReadFile("Dockerfile")
	assert.NoError(t, err)
	content := string(dockerfile)

	// Verify the builder stage uses the pinned Go toolchain image
	assert.Contains(t, content, "FROM golang:1.24-bookworm AS builder")

	// Verify the runtime stage uses a slim base image
	assert.Contains(t, content, "FROM debian:bookworm-slim AS runtime")

	// Verify the binary is copied out of the builder stage
	assert.Contains(t, content, "COPY --from=builder /out/captionforge /app/captionforge")
}

func TestDockerfileProducesStaticBinary(t *testing.T) {
	// Read Dockerfile content
	dockerfile, err := os.ReadFile("Dockerfile")
	assert.NoError(t, err)
	content := string(dockerfile)

	// Verify cgo is disabled so the binary has no libc dependency
	assert.Contains(t, content, "CGO_ENABLED=0 go build")

	// Verify build paths and symbols are stripped
	assert.Contains(t, content, "-trimpath")
	assert.Contains(t, content, `-ldflags="-s -w"`)

	// Verify the entry point builds the captionforge command
	assert.Contains(t, content, "./cmd/captionforge")
}

func TestDockerfileMaintainsSecurityConfiguration(t *testing.T) {
	// Read Dockerfile content
	dockerfile, err := os.ReadFile("Dockerfile")
	assert.NoError(t, err)
	content := string(dockerfile)

	// Verify a dedicated non-root user is created and used
	assert.Contains(t, content, "groupadd -g 1000 captionforge")
	assert.Contains(t, content, "useradd -u 1000 -g captionforge")
	assert.Contains(t, content, "USER captionforge")

	// Verify the output directory is owned by the runtime user
	assert.Contains(t, content, "chown -R captionforge:captionforge /app")

	// Verify the container runs the binary directly
	assert.Contains(t, content, `ENTRYPOINT ["/app/captionforge"]`)
}

func TestDockerfileCachesModuleDownloads(t *testing.T) {
	// Read Dockerfile content
	dockerfile, err := os.ReadFile("Dockerfile")
	assert.NoError(t, err)
	content := string(dockerfile)

	// Verify go.mod is copied before the rest of the source so module
	// downloads stay cached across source-only changes
	assert.Contains(t, content, "COPY go.mod ./")
	assert.Contains(t, content, "RUN go mod download")
}
