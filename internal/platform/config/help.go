// internal/platform/config/help.go
package config

import (
	"fmt"
	"io"
	"runtime"
)

const helpText = `
arlo - concurrent title search across several catalog services

USAGE:
  arlo [options] <keyword>
  arlo --serve [--listen addr] [options]

IMPORTANT:
  Use double dash (--) for long flag names: --timeout, --proxy, --pretty
  Use single dash (-) for short flags: -T, -p, -q
  Quote keywords with spaces: arlo "star wars"

CORE OPTIONS:
  -T, --timeout int        Global deadline in milliseconds (default: 20000)
      --grace int          Extra wait for cancelled sources, in ms (default: 2000)
  -c, --config string      YAML configuration file
      --log-level string   debug, info, warn, error or off (default: warn)

SOURCE OPTIONS:
  --src.<name>              Enable or disable a source (e.g. --src.thetvdb=false)
  --src.<name>.url string   Override the URL template; must contain {keyword}
  --id-field string         Record field used to detect duplicates (default: imdbId)

  Default sources, in priority order:
    rottentomatoes, themoviedb, thetvdb

OUTPUT OPTIONS:
  -o, --out string         Write the JSON array to a file instead of stdout
      --pretty             Indent the JSON output
  -q, --quiet              Disable progress output on stderr

NETWORK OPTIONS:
  -p, --proxy string       http(s):// or socks5:// proxy for outbound requests
      --user-agent string  User-Agent header (default: arlo/1.0)
      --rate-limit float   Max requests per second across sources, 0 = unlimited
      --max-body int       Max response size per source in bytes (default: 8388608)

SERVER OPTIONS:
      --serve              Run the HTTP front end instead of a single search
      --listen string      Listen address (default: 127.0.0.1:8080)

INFO:
  -v, --version            Print version information and exit
  -h, --help               Show this help message

EXAMPLES:
  Basic search:
    arlo alien

  Pretty output to a file, 5 second deadline:
    arlo -T 5000 --pretty -o alien.json alien

  Disable a source:
    arlo --src.rottentomatoes=false "blade runner"

  Front end:
    arlo --serve --listen :8080
    curl 'http://localhost:8080/search?search=alien'

ENVIRONMENT VARIABLES:
  ARLO_CONFIG=/path/arlo.yaml       Configuration file
  ARLO_TIMEOUT_MS=5000              Global deadline
  ARLO_GRACE_MS=1000                Grace period
  ARLO_LOG_LEVEL=debug              Log level
  ARLO_ID_FIELD=imdbId              Identity field
  ARLO_PROXY_URL=socks5://...       Proxy URL
  ARLO_RATE_LIMIT=5                 Requests per second
  ARLO_USER_AGENT=...               User-Agent header
  ARLO_LISTEN=:8080                 Listen address

  Source-specific (replace THETVDB with the source name):
  ARLO_SOURCES_THETVDB_ENABLED=false
  ARLO_SOURCES_THETVDB_URL=https://mirror.example/tvdb?q={keyword}

  Note: CLI flags override environment variables, which override the file.

EXIT STATUS:
  0  merged results written (individual sources may have failed)
  1  fatal error (no sources, aborted, output failure)
  2  invalid invocation
`

// PrintHelp escribe el mensaje de ayuda.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// PrintVersion escribe la información de versión.
func PrintVersion(w io.Writer, version, commit, date string) {
	fmt.Fprintf(w, "arlo %s\n", version)
	fmt.Fprintf(w, "  Commit:  %s\n", commit)
	fmt.Fprintf(w, "  Built:   %s\n", date)
	fmt.Fprintf(w, "  Go:      %s\n", getGoVersion())
}

func getGoVersion() string {
	return runtime.Version()
}
