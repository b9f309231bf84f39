package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"coinchat-backend/internal/config"
)

func TestApplyFlags(t *testing.T) {
	defer func() { port, transport = "", "" }()

	cfg := &config.Config{Port: "8080", GeminiTransport: "rest"}
	applyFlags(cfg)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "rest", cfg.GeminiTransport)

	port, transport = "9090", "sdk"
	applyFlags(cfg)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "sdk", cfg.GeminiTransport)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "coinchat-backend 1.0.0\n", out.String())
}
