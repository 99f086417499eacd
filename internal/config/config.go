// Package config loads runtime configuration for the Vigil motion watcher
// from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/ayusman/vigil/internal/detect"
)

// Config holds runtime configuration. Values come from environment variables
// and may be overridden by command-line flags in the entrypoint.
type Config struct {
	// Camera and pipeline
	CameraID int
	FPS      int

	// Detection parameters
	MotionThreshold int
	MinContourArea  int
	// NotificationDelay is the alert cooldown in seconds.
	NotificationDelay int

	// Server
	Addr string

	// Storage
	DBPath      string
	SnapshotDir string

	// Mail credentials. Alerts are only emailed when all of these are set.
	SMTPHost       string
	SMTPPort       int
	SenderEmail    string
	SenderPassword string
	ReceiverEmail  string
}

// Default returns a Config populated with standard defaults.
func Default() *Config {
	return &Config{
		CameraID:          0,
		FPS:               10,
		MotionThreshold:   detect.DefaultThreshold,
		MinContourArea:    detect.DefaultMinArea,
		NotificationDelay: int(detect.DefaultCooldown.Seconds()),
		Addr:              ":8080",
		SMTPHost:          "smtp.gmail.com",
		SMTPPort:          587,
	}
}

// FromEnv builds a Config from defaults overridden by environment variables.
func FromEnv() *Config {
	c := Default()

	c.CameraID = envInt("VIGIL_CAMERA_ID", c.CameraID)
	c.FPS = envInt("VIGIL_FPS", c.FPS)
	c.MotionThreshold = envInt("MOTION_THRESHOLD", c.MotionThreshold)
	c.MinContourArea = envInt("MIN_CONTOUR_AREA", c.MinContourArea)
	c.NotificationDelay = envInt("NOTIFICATION_DELAY", c.NotificationDelay)
	c.Addr = envString("VIGIL_ADDR", c.Addr)
	c.DBPath = envString("VIGIL_DB", c.DBPath)
	c.SnapshotDir = envString("VIGIL_SNAPSHOT_DIR", c.SnapshotDir)

	c.SMTPHost = envString("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = envInt("SMTP_PORT", c.SMTPPort)
	c.SenderEmail = envString("SENDER_EMAIL", c.SenderEmail)
	c.SenderPassword = envString("SENDER_PASSWORD", c.SenderPassword)
	c.ReceiverEmail = envString("RECEIVER_EMAIL", c.ReceiverEmail)

	return c
}

// Validate clamps values to safe ranges.
func (c *Config) Validate() {
	if c.CameraID < 0 {
		c.CameraID = 0
	}
	if c.FPS <= 0 {
		c.FPS = 10
	}
	if c.MotionThreshold <= 0 {
		c.MotionThreshold = detect.DefaultThreshold
	}
	if c.MinContourArea <= 0 {
		c.MinContourArea = detect.DefaultMinArea
	}
	if c.NotificationDelay <= 0 {
		c.NotificationDelay = int(detect.DefaultCooldown.Seconds())
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.SMTPPort <= 0 {
		c.SMTPPort = 587
	}
}

// MailEnabled reports whether enough credentials are present to email alerts.
func (c *Config) MailEnabled() bool {
	return c.SenderEmail != "" && c.SenderPassword != "" && c.ReceiverEmail != ""
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
