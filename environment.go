package jux

import (
	"github.com/jrjsmrtn/go-jux/internal/adapters/driven/envinfo"
	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

// Re-export the environment capture surface from the internal packages
type EnvironmentCapturer = ports.EnvironmentCapturer
type EnvironmentMetadata = domain.EnvironmentMetadata

var (
	NewCapturer = envinfo.NewCapturer

	WithWorkDir     = envinfo.WithWorkDir
	WithProjectName = envinfo.WithProjectName
	WithEnvVars     = envinfo.WithEnvVars
)
