package phpruntime

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// queryScript prints one "ext<TAB>name<TAB>version" line per loaded extension
// followed by a "dir<TAB>path" line and a "php<TAB>major.minor<TAB>binary"
// line. Extensions that report no version are given "0".
const queryScript = `foreach (get_loaded_extensions() as $e) { $v = phpversion($e); echo "ext\t", $e, "\t", ($v === false ? '0' : $v), "\n"; } echo "dir\t", ini_get('extension_dir'), "\n"; echo "php\t", PHP_MAJOR_VERSION, ".", PHP_MINOR_VERSION, "\t", PHP_BINARY, "\n";`

// Query runs phpBinary once and returns its loaded extensions and extension_dir.
func Query(ctx context.Context, phpBinary string) (*Runtime, error) {
	if phpBinary == "" {
		phpBinary = "php"
	}

	cmd := exec.CommandContext(ctx, phpBinary, "-r", queryScript)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("querying php binary %s: %s: %w", phpBinary, strings.TrimSpace(stderr.String()), err)
	}

	rt, err := ParseQueryOutput(output)
	if err != nil {
		return nil, fmt.Errorf("reading output of %s: %w", phpBinary, err)
	}
	return rt, nil
}

// ParseQueryOutput decodes the output produced by queryScript.
func ParseQueryOutput(output []byte) (*Runtime, error) {
	rt := &Runtime{Modules: NewIndex()}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "ext":
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: malformed extension line %q", lineNo, line)
			}
			if err := rt.Modules.Add(Entry{ModuleName: fields[1], ReportedVersion: fields[2]}); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "dir":
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: malformed extension_dir line %q", lineNo, line)
			}
			rt.ExtensionDir = fields[1]
		case "php":
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: malformed php line %q", lineNo, line)
			}
			rt.PHPVersion = fields[1]
			rt.PHPBinaryPath = fields[2]
		default:
			// PHP may print startup warnings to stdout; skip them.
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rt, nil
}
