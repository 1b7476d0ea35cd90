package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/kdimtricp/vlabel/internal/annotation"
	"github.com/kdimtricp/vlabel/internal/media"
)

func main() {
	var (
		videoPath   = flag.String("video", "", "Path of the video to probe")
		fps         = flag.Float64("fps", annotation.DefaultFrameRate, "Frame rate used to derive frame bounds")
		ffprobePath = flag.String("ffprobe", "", "Explicit ffprobe binary (default: PATH lookup)")
		timeout     = flag.Duration("timeout", 30*time.Second, "Probe timeout")
	)
	flag.Parse()

	if *videoPath == "" {
		log.Fatal("Please provide a video path with -video flag")
	}
	if *fps < annotation.MinFrameRate {
		log.Fatalf("Frame rate must be >= %v", annotation.MinFrameRate)
	}

	prober, err := media.NewFFProbe(*ffprobePath)
	if err != nil {
		log.Fatal("Failed to initialize prober:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	duration, err := prober.Duration(ctx, *videoPath)
	if err != nil {
		log.Fatal("Failed to probe video:", err)
	}

	maxFrame := annotation.MaxFrame(duration, *fps)
	fmt.Printf("Video: %s\n", *videoPath)
	fmt.Printf("Duration: %.3fs\n", duration)
	fmt.Printf("Frame rate: %g fps\n", *fps)
	fmt.Printf("Frames: 0-%d\n", maxFrame)
}
