package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultSpecDir is the directory holding all spec files, relative to the project
	DefaultSpecDir = "specs"
	// DefaultExtension is the extension every spec file carries
	DefaultExtension = ".test"
	// DefaultReportFile is the last run report file name
	DefaultReportFile = "last-run.json"
	// DefaultReportDir is the directory the report is stored in
	DefaultReportDir = ".tmsync"
	// DefaultProjectFile is the optional project configuration file
	DefaultProjectFile = ".tmsync.yaml"
	// DefaultProcessors is the default number of workers
	DefaultProcessors = 4
	// DefaultPageSize is the page size used when listing remote tests
	DefaultPageSize = 1000
	// DefaultSentinelTag is added to every uploaded test
	DefaultSentinelTag = "tmsync"
	// DefaultBaseURL is used when no service URL is configured
	DefaultBaseURL = "https://localhost"
)

// Environment variables read on load
const (
	EnvBaseURL    = "TMSYNC_URL"
	EnvToken      = "TMSYNC_TOKEN"
	EnvProcessors = "TMSYNC_PROCESSORS"
)

// DefaultPathsToIgnore are directories never descended into when scanning for spec files
var DefaultPathsToIgnore = []string{
	"node_modules",
	"vendor",
}
