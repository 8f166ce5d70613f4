package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/cloudinary"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/config"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/metrics"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/qrcred"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/queue"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/roster"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/store"
)

// Worker consumes qr_render jobs: render the student's QR credential,
// upload it to Cloudinary, and record the URL on the student row.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		jobs = queue.NewInMemory(64)
	} else {
		jobs = queue.NewRedisQueue(redisClient.Client, "qwickattend:jobs")
	}

	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		log.Fatal("cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET)")
	}
	cdn := cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	students := roster.NewRepository(db.Client)

	messages, err := jobs.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for render jobs...")
	for msg := range messages {
		if msg.Type != qrcred.JobType {
			continue
		}

		job, err := qrcred.ParseJob(msg.Body)
		if err != nil {
			log.Printf("skipping bad job: %v", err)
			metrics.QRRenders.WithLabelValues("bad_job").Inc()
			continue
		}
		log.Printf("rendering credential for %s", job.StudentCode)

		png, err := qrcred.RenderPNG(job.TeacherID, job.StudentCode, qrcred.DefaultSize)
		if err != nil {
			log.Printf("render failed for %s: %v", job.StudentCode, err)
			metrics.QRRenders.WithLabelValues("render_failed").Inc()
			continue
		}

		result, err := cdn.UploadPNG(png, qrcred.PublicID(job.TeacherID, job.StudentCode))
		if err != nil {
			log.Printf("upload failed for %s: %v", job.StudentCode, err)
			metrics.QRRenders.WithLabelValues("upload_failed").Inc()
			continue
		}

		if err := students.SetQRCodeURL(ctx, job.StudentCode, result.SecureURL); err != nil {
			log.Printf("record url failed for %s: %v", job.StudentCode, err)
			metrics.QRRenders.WithLabelValues("db_failed").Inc()
			continue
		}

		metrics.QRRenders.WithLabelValues("ok").Inc()
		log.Printf("credential for %s uploaded: %s", job.StudentCode, result.SecureURL)

		time.Sleep(10 * time.Millisecond)
	}

	log.Println("worker stopped")
}
