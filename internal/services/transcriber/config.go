package transcriber

// Config captures runtime settings for WhisperX transcription.
type Config struct {
	// Model is the WhisperX model to use (e.g., "large-v3").
	Model string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
}

// WhisperX invocation constants. Sung vocals need a softer VAD than speech;
// onset/offset here keep quiet intros from being dropped.
const (
	DefaultModel   = "large-v3"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	BatchSize      = "4"
	VADOnset       = "0.08"
	VADOffset      = "0.07"
	Temperature    = "0.0"
	OutputFormat   = "json"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"
)

// Command names for external tools.
const (
	UVXCommand    = "uvx"
	FFmpegCommand = "ffmpeg"
)
