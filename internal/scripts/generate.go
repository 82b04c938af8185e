package scripts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/wwscc/distbuilder/internal/config"
	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
)

// ExecutableMode is applied to every generated script.
const ExecutableMode os.FileMode = 0o777

// Generate writes one launcher per configured pair, plus the rules script on
// Windows, into the runtime root. It returns the generated file names in
// write order.
func Generate(cfg *config.BuildConfig, libs []string) ([]string, error) {
	p := ProfileFor(cfg.Platform)
	launcher := mustTemplate(p.Launcher)
	classpath, err := p.word(Classpath(libs, p))
	if err != nil {
		return nil, derrors.BuildFailed("generate_scripts", err)
	}

	written := make([]string, 0, len(cfg.Launchers)+1)
	for _, l := range cfg.Launchers {
		mainClass, err := p.word(l.MainClass)
		if err != nil {
			return written, derrors.BuildFailed("generate_scripts", err).WithContext("launcher", l.Name)
		}
		body, err := Render(launcher, map[string]any{
			"classpath": classpath,
			"mainclass": mainClass,
		})
		if err != nil {
			return written, derrors.BuildFailed("generate_scripts", err).WithContext("launcher", l.Name)
		}
		name := p.ScriptName(l.Name)
		if p.Shell {
			if err := ValidateShell(name, body); err != nil {
				return written, derrors.BuildFailed("generate_scripts", err).WithContext("launcher", l.Name)
			}
		}
		if err := writeExecutable(filepath.Join(cfg.RuntimeDir, name), p.normalize(body)); err != nil {
			return written, err
		}
		slog.Debug("Generated launcher", logfields.File(name), logfields.MainClass(l.MainClass))
		written = append(written, name)
	}

	if p.Rules {
		body, err := RenderRules(cfg.Windows)
		if err != nil {
			return written, derrors.BuildFailed("generate_scripts", err)
		}
		name := cfg.Windows.RulesScript
		if name == "" {
			name = config.DefaultRulesScript
		}
		if err := writeExecutable(filepath.Join(cfg.RuntimeDir, name), p.normalize(body)); err != nil {
			return written, err
		}
		slog.Debug("Generated rules script", logfields.File(name), logfields.Count(len(cfg.Windows.FirewallRules)))
		written = append(written, name)
	}

	slog.Info("Generated scripts", logfields.Path(cfg.RuntimeDir), logfields.Count(len(written)))
	return written, nil
}

// RenderRules renders the firewall/service configuration script.
func RenderRules(w config.WindowsConfig) (string, error) {
	return Render(mustTemplate("rules.bat.tmpl"), map[string]any{
		"rules":    w.FirewallRules,
		"services": w.DisabledServices,
	})
}

// word makes s a single literal word of the launcher language. Shell
// launchers quote anything the shell would expand or split.
func (p Profile) word(s string) (string, error) {
	if !p.Shell {
		return s, nil
	}
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("cannot quote %q for the launcher: %w", s, err)
	}
	return q, nil
}

// ValidateShell parses a rendered launcher as a POSIX shell program.
func ValidateShell(name, body string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(strings.NewReader(body), name); err != nil {
		return fmt.Errorf("launcher %s is not valid shell: %w", name, err)
	}
	return nil
}

func writeExecutable(path, body string) error {
	// #nosec G306 -- launchers must be executable by every user
	if err := os.WriteFile(path, []byte(body), ExecutableMode); err != nil {
		return derrors.FileSystemError("write script", path, err)
	}
	// WriteFile is subject to the umask; set the bits explicitly.
	// #nosec G302 -- see above
	if err := os.Chmod(path, ExecutableMode); err != nil {
		return derrors.FileSystemError("chmod script", path, err)
	}
	return nil
}
