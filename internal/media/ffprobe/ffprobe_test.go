package ffprobe

import "testing"

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Width: 1920, Height: 1080, AvgFrameRate: "30000/1001", NBFrames: "900"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
		},
	}
	video, ok := result.VideoStream()
	if !ok {
		t.Fatalf("expected a video stream")
	}
	if got := video.FPS(); got < 29.96 || got > 29.98 {
		t.Fatalf("unexpected fps: %v", got)
	}
	if video.FrameCount() != 900 {
		t.Fatalf("unexpected frame count: %d", video.FrameCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", AvgFrameRate: "0/0", RFrameRate: "bad", NBFrames: "nope"},
		},
		Format: Format{Duration: "bad"},
	}
	video, _ := result.VideoStream()
	if video.FPS() != 0 {
		t.Fatalf("expected fps 0, got %v", video.FPS())
	}
	if video.FrameCount() != 0 {
		t.Fatalf("expected frame count 0, got %d", video.FrameCount())
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
}

func TestFPSFallsBackToRFrameRate(t *testing.T) {
	stream := Stream{AvgFrameRate: "", RFrameRate: "25/1"}
	if stream.FPS() != 25 {
		t.Fatalf("expected 25 fps, got %v", stream.FPS())
	}
}

func TestNoVideoStream(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "audio"}}}
	if _, ok := result.VideoStream(); ok {
		t.Fatalf("expected no video stream")
	}
}
