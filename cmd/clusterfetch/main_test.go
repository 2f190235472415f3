package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/testutil"
	"github.com/charmbracelet/fang"
)

var linuxInfo = &platform.Info{OS: "linux", Arch: platform.ArchAMD64, ArchRaw: "amd64", KernelArch: "x86_64"}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, info *platform.Info, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	a := &app{
		stdout:   &stdout,
		stderr:   &stderr,
		detector: platform.StaticDetector{Info: info},
	}

	root := newRootCommand(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// releaseServer serves one artifact per component and counts requests.
func releaseServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	files := map[string][]byte{
		"/node.tar.gz": testutil.TarGz(t, []testutil.Entry{
			{Name: "bin/", Dir: true},
			{Name: "bin/cardano-node", Body: "node"},
			{Name: "bin/cardano-cli", Body: "cli"},
			{Name: "bin/cardano-submit-api", Body: "submit"},
		}),
		"/yaci-store.jar": []byte("jar"),
		"/ogmios.zip":     testutil.Zip(t, []testutil.Entry{{Name: "bin/ogmios", Body: "ogmios"}}),
		"/kupo.tar.gz":    testutil.TarGz(t, []testutil.Entry{{Name: "bin/kupo", Body: "kupo"}}),
	}

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func exitCodeOf(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestDownload_Node(t *testing.T) {
	home := testutil.SetupTestEnv(t)
	server, _ := releaseServer(t)

	res := run(t, linuxInfo, "download", "node", "--url", server.URL+"/node.tar.gz")
	if res.err != nil {
		t.Fatalf("download node failed: %v\nstdout: %s", res.err, res.stdout)
	}

	for _, name := range []string{"cardano-node", "cardano-cli", "cardano-submit-api"} {
		info, err := os.Stat(filepath.Join(home, "bin", name))
		if err != nil {
			t.Errorf("%s missing: %v", name, err)
			continue
		}
		if info.Mode().Perm() != 0755 {
			t.Errorf("%s mode = %v", name, info.Mode().Perm())
		}
	}

	for _, want := range []string{
		"[Download] Downloading cardano-node from " + server.URL,
		"Download complete for cardano-node!",
		"cardano-node installed at " + filepath.Join(home, "bin", "cardano-node"),
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestDownload_AlreadyPresentExitsZero(t *testing.T) {
	testutil.SetupTestEnv(t)
	server, hits := releaseServer(t)
	url := server.URL + "/kupo.tar.gz"

	if res := run(t, linuxInfo, "download", "kupo", "--url", url); res.err != nil {
		t.Fatalf("first download failed: %v", res.err)
	}

	res := run(t, linuxInfo, "download", "kupo", "--url", url)
	if res.err != nil {
		t.Errorf("second download error = %v, want nil", res.err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
	if !strings.Contains(res.stdout, "Use --overwrite to overwrite the existing kupo") {
		t.Errorf("stdout missing overwrite hint:\n%s", res.stdout)
	}

	res = run(t, linuxInfo, "download", "kupo", "--url", url, "--overwrite")
	if res.err != nil {
		t.Errorf("overwrite download error = %v", res.err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits after overwrite = %d, want 2", hits.Load())
	}
}

func TestDownload_MissingVersion(t *testing.T) {
	testutil.SetupTestEnv(t)

	res := run(t, linuxInfo, "download", "yaci-store")
	if code := exitCodeOf(res.err); code != 1 {
		t.Fatalf("exit code = %d, want 1 (err: %v)", code, res.err)
	}
	if !strings.Contains(res.stdout, "yaci.store.version") || !strings.Contains(res.stdout, "yaci.store.url") {
		t.Errorf("stdout should name the settings:\n%s", res.stdout)
	}
}

func TestDownload_OgmiosOnMacOS(t *testing.T) {
	testutil.SetupTestEnv(t)
	server, hits := releaseServer(t)

	darwin := &platform.Info{OS: "darwin", Arch: platform.ArchARM64, ArchRaw: "arm64"}
	res := run(t, darwin, "download", "ogmios", "--url", server.URL+"/ogmios.zip")

	if code := exitCodeOf(res.err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if hits.Load() != 0 {
		t.Errorf("server hits = %d, want 0", hits.Load())
	}
	if !strings.Contains(res.stdout, "ogmios is supported only on linux. Skipping!!!") {
		t.Errorf("stdout:\n%s", res.stdout)
	}
}

func TestDownload_AllFromPropertiesFile(t *testing.T) {
	home := testutil.SetupTestEnv(t)
	server, _ := releaseServer(t)

	configPath := testutil.WriteFile(t, t.TempDir(), "node.properties", []byte(strings.Join([]string{
		"node.url=" + server.URL + "/node.tar.gz",
		"yaci.store.url=" + server.URL + "/yaci-store.jar",
		"ogmios.url=" + server.URL + "/ogmios.zip",
		"kupo.url=" + server.URL + "/kupo.tar.gz",
	}, "\n")))

	res := run(t, linuxInfo, "--config", configPath, "download", "all")
	if res.err != nil {
		t.Fatalf("download all failed: %v\nstdout: %s", res.err, res.stdout)
	}

	for _, path := range []string{
		filepath.Join(home, "bin", "cardano-node"),
		filepath.Join(home, "yaci-store", "yaci-store.jar"),
		filepath.Join(home, "ogmios", "bin", "ogmios"),
		filepath.Join(home, "kupo", "bin", "kupo"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s missing: %v", path, err)
		}
	}
}

func TestDownload_AllReportsPartialFailure(t *testing.T) {
	home := testutil.SetupTestEnv(t)
	server, _ := releaseServer(t)
	t.Setenv("CLUSTERFETCH_KUPO_URL", server.URL+"/kupo.tar.gz")

	res := run(t, linuxInfo, "download", "all")
	if code := exitCodeOf(res.err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(res.err.Error(), "3 of 4 components failed") {
		t.Errorf("err = %v", res.err)
	}
	if _, err := os.Stat(filepath.Join(home, "kupo", "bin", "kupo")); err != nil {
		t.Errorf("kupo should still be installed: %v", err)
	}
}

func TestDownload_HomeFlag(t *testing.T) {
	testutil.SetupTestEnv(t)
	server, _ := releaseServer(t)
	home := filepath.Join(t.TempDir(), "elsewhere")

	res := run(t, linuxInfo, "--home", home, "download", "yaci-store", "--url", server.URL+"/yaci-store.jar")
	if res.err != nil {
		t.Fatalf("download failed: %v", res.err)
	}
	if _, err := os.Stat(filepath.Join(home, "yaci-store", "yaci-store.jar")); err != nil {
		t.Errorf("jar not under --home: %v", err)
	}
}

func TestDownload_LuaConfigError(t *testing.T) {
	testutil.SetupTestEnv(t)
	configPath := testutil.WriteFile(t, t.TempDir(), "cluster.lua", []byte(`cluster = {`))

	res := run(t, linuxInfo, "--config", configPath, "download", "node")
	if code := exitCodeOf(res.err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(res.stdout, "Lua syntax error") {
		t.Errorf("stdout:\n%s", res.stdout)
	}
}

func TestDownload_UnknownComponent(t *testing.T) {
	testutil.SetupTestEnv(t)

	res := run(t, linuxInfo, "download", "db-sync")
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown component") {
		t.Errorf("err = %v, want unknown component", res.err)
	}
}

func TestPlatformCommand(t *testing.T) {
	info := &platform.Info{
		OS: "linux", Arch: platform.ArchARM64, ArchRaw: "arm64", KernelArch: "aarch64",
		Platform: "ubuntu", Family: "debian", Version: "24.04",
	}

	res := run(t, info, "platform")
	if res.err != nil {
		t.Fatalf("platform failed: %v", res.err)
	}

	for _, want := range []string{"os:           linux (linux)", "arch:         arm64 (arm64)", "kernel arch:  aarch64", "distro:       ubuntu 24.04 (debian)"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestPlatformCommand_UnsupportedArch(t *testing.T) {
	res := run(t, &platform.Info{OS: "darwin", ArchRaw: "386"}, "platform")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, "arch:         386 (unsupported)") || !strings.Contains(res.stdout, "(macos)") {
		t.Errorf("stdout:\n%s", res.stdout)
	}
}

func TestVersionFlag(t *testing.T) {
	res := run(t, linuxInfo, "--version")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, Version) {
		t.Errorf("stdout = %q, want version %s", res.stdout, Version)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "reported_failure", err: &ExitError{Code: 3}, want: 3},
		{name: "wrapped_failure", err: fmt.Errorf("install: %w", &ExitError{Code: 2}), want: 2},
		{name: "plain_error", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, fang.Styles{}, &ExitError{Code: 1, Err: errors.New("already shown")})
	if buf.Len() != 0 {
		t.Errorf("reported errors must not be printed again: %q", buf.String())
	}

	reportError(&buf, fang.Styles{}, errors.New("unknown flag: --bogus"))
	if !strings.Contains(buf.String(), "unknown flag") {
		t.Errorf("output = %q, want the error message", buf.String())
	}
}
