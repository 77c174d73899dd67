package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Logger Suite")
}

var _ = ginkgo.Describe("Init", func() {
	ctx := context.Background()

	ginkgo.It("honors the configured level over the environment default", func() {
		Init("production", LoggingOptions{Level: "debug", Format: "json"})

		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelDebug)).To(gomega.BeTrue())
	})

	ginkgo.It("suppresses levels below the configured one", func() {
		Init("development", LoggingOptions{Level: "error", Format: "text"})

		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelInfo)).To(gomega.BeFalse())
		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelError)).To(gomega.BeTrue())
	})

	ginkgo.It("falls back to the environment default when the config is blank", func() {
		Init("production", LoggingOptions{})

		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelDebug)).To(gomega.BeFalse())
		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelInfo)).To(gomega.BeTrue())
	})
})

var _ = ginkgo.Describe("parseLevel", func() {
	ginkgo.It("maps the level names case-insensitively", func() {
		gomega.Expect(parseLevel("DEBUG", "production")).To(gomega.Equal(slog.LevelDebug))
		gomega.Expect(parseLevel("warn", "development")).To(gomega.Equal(slog.LevelWarn))
		gomega.Expect(parseLevel("warning", "development")).To(gomega.Equal(slog.LevelWarn))
		gomega.Expect(parseLevel("error", "development")).To(gomega.Equal(slog.LevelError))
	})

	ginkgo.It("defaults by environment for unknown levels", func() {
		gomega.Expect(parseLevel("", "production")).To(gomega.Equal(slog.LevelInfo))
		gomega.Expect(parseLevel("verbose", "development")).To(gomega.Equal(slog.LevelDebug))
	})
})
