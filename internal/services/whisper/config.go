package whisper

// Config captures runtime settings for whisper transcription.
type Config struct {
	// Model is the whisper model to use (e.g., "base", "large-v3").
	Model string
	// Language is the expected speech language (ISO 639-1).
	Language string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
}

// Whisper invocation constants.
const (
	DefaultModel   = "base"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	BatchSize      = "4"
	OutputFormat   = "json"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CPUComputeType = "float32"
)

// UVXCommand launches whisperx without a local install.
const UVXCommand = "uvx"
