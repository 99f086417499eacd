package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/vigil/internal/app"
	"github.com/ayusman/vigil/internal/capture"
	"github.com/ayusman/vigil/internal/config"
	"github.com/ayusman/vigil/internal/detect"
	"github.com/ayusman/vigil/internal/notify"
	"github.com/ayusman/vigil/internal/server"
	"github.com/ayusman/vigil/internal/store"
)

func main() {
	cfg := config.FromEnv()

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	cameraID := flag.Int("camera", cfg.CameraID, "camera device ID")
	dbPath := flag.String("db", cfg.DBPath, "path to the events database")
	fps := flag.Int("fps", cfg.FPS, "capture frame rate")
	mock := flag.Bool("mock", false, "use a synthetic camera instead of a real device")
	flag.Parse()

	cfg.Addr = *addr
	cfg.CameraID = *cameraID
	cfg.DBPath = *dbPath
	cfg.FPS = *fps
	cfg.Validate()

	fmt.Println("Vigil - Motion Detection")

	// Initialize the store
	if cfg.DBPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		cfg.DBPath = filepath.Join(homeDir, ".vigil", "vigil.db")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	camera := newCamera(cfg, *mock)
	notifier := newNotifier(cfg)

	a := app.New(app.Config{
		Camera:   camera,
		Store:    st,
		Notifier: notifier,
		Detection: detect.LoopConfig{
			Threshold: cfg.MotionThreshold,
			MinArea:   cfg.MinContourArea,
			Cooldown:  time.Duration(cfg.NotificationDelay) * time.Second,
		},
		FPS:         cfg.FPS,
		SnapshotDir: cfg.SnapshotDir,
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start detection: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Pipeline:  a,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(cfg.Addr)
	}()

	fmt.Printf("Starting server on %s\n", cfg.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	}
}

// newCamera returns a real device camera, or a synthetic one that loops a
// moving bright square for demos and machines without a camera.
func newCamera(cfg *config.Config, mock bool) capture.Camera {
	if !mock {
		return capture.NewCamera(cfg.CameraID)
	}

	frames := make([]image.Image, 0, 8)
	for i := 0; i < 8; i++ {
		img := image.NewGray(image.Rect(0, 0, 320, 240))
		x := 20 + i*30
		for dy := 0; dy < 40; dy++ {
			for dx := 0; dx < 40; dx++ {
				img.SetGray(x+dx, 60+dy, color.Gray{Y: 230})
			}
		}
		frames = append(frames, img)
	}
	return capture.NewMockCamera(frames, true)
}

// newNotifier returns a mail notifier when SMTP credentials are configured
// and a log notifier otherwise.
func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.MailEnabled() {
		log.Printf("Mail alerts enabled for %s", cfg.ReceiverEmail)
		return notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.SenderPassword, cfg.ReceiverEmail)
	}
	log.Println("Mail alerts disabled, logging detections instead")
	return notify.NewLogNotifier()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.vigil/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".vigil", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
