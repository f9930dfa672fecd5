package version

// Version of the backtest engine, written into every stats file.
// Set at build time with
// -ldflags "-X github.com/rxtech-lab/argo-backtest/internal/version.Version=1.2.3".
// "main" marks a development build.
var Version = "main"

func GetVersion() string {
	return Version
}
