package gateway

// TaskKind enumerates every adapter operation the gateway knows. The set is
// closed: adding a kind means adding a payload type and a case to the
// dispatcher below, both checked at compile time.
type TaskKind int

const (
	TaskReadFile TaskKind = iota
	TaskFetchAPI
	TaskRunSQL
	TaskConvertMarkdown
	TaskTranscribeAudio
	TaskResizeImage
	TaskGitCommit
)

func (k TaskKind) String() string {
	switch k {
	case TaskReadFile:
		return "read_file"
	case TaskFetchAPI:
		return "fetch_api"
	case TaskRunSQL:
		return "run_sql"
	case TaskConvertMarkdown:
		return "convert_md"
	case TaskTranscribeAudio:
		return "transcribe_audio"
	case TaskResizeImage:
		return "resize_image"
	case TaskGitCommit:
		return "git_commit"
	default:
		return "unknown"
	}
}

// AdapterTask is the tagged union of adapter payloads.
type AdapterTask interface {
	kind() TaskKind
}

type ReadFileTask struct {
	Path string `json:"path"`
}

type FetchAPITask struct {
	URL        string `json:"url"`
	OutputPath string `json:"output_path"`
}

type RunSQLTask struct {
	DBPath string `json:"db_path"`
	Query  string `json:"query"`
}

type ConvertMarkdownTask struct {
	MarkdownPath string `json:"md_path"`
	OutputPath   string `json:"output_path"`
}

type TranscribeAudioTask struct {
	AudioPath string `json:"audio_path"`
}

type ResizeImageTask struct {
	ImagePath string `json:"image_path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	// OutputPath empty means resize in place (reference behavior); set, it
	// selects the resize-to-copy variant.
	OutputPath string `json:"output_path,omitempty"`
}

type GitCommitTask struct {
	RepoURL       string `json:"repo_url"`
	CommitMessage string `json:"commit_message"`
}

func (ReadFileTask) kind() TaskKind        { return TaskReadFile }
func (FetchAPITask) kind() TaskKind        { return TaskFetchAPI }
func (RunSQLTask) kind() TaskKind          { return TaskRunSQL }
func (ConvertMarkdownTask) kind() TaskKind { return TaskConvertMarkdown }
func (TranscribeAudioTask) kind() TaskKind { return TaskTranscribeAudio }
func (ResizeImageTask) kind() TaskKind     { return TaskResizeImage }
func (GitCommitTask) kind() TaskKind       { return TaskGitCommit }
