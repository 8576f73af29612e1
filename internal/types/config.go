package types

// RunMode is the deployment mode the process starts in.
type RunMode string

const (
	ModeLocal        RunMode = "local"
	ModeAPI          RunMode = "api"
	ModeAWSLambdaAPI RunMode = "aws_lambda_api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
