package export

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"testing"

	"github.com/csmclaren/charfreq-tools/internal/ngram"
	"github.com/csmclaren/charfreq-tools/internal/textcodec"
)

var tableFiles = []string{
	"1-grams.tsv", "1-grams-uc.tsv",
	"2-grams.tsv", "2-grams-uc.tsv",
	"3-grams.tsv", "3-grams-uc.tsv",
}

func accumulate(streams ...string) *ngram.Accumulator {
	acc := ngram.NewAccumulator()
	for _, s := range streams {
		acc.ObserveStream(slices.Values([]string{s}))
	}
	return acc
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestExportTwoFileScenario(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	acc := accumulate("ab", "ba")

	summary, err := New(Options{Dir: dir, SampleLimit: -1, Out: &out}).Export(acc.Tables())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := strings.Join([]string{
		"1-grams (unique): 2",
		"ab",
		"",
		"1-grams-uc (unique): 2",
		"AB",
		"",
		"2-grams (unique): 2",
		"",
		"2-grams-uc (unique): 2",
		"",
		"3-grams (unique): 0",
		"",
		"3-grams-uc (unique): 0",
		"",
		"",
	}, "\n")
	if out.String() != want {
		t.Fatalf("summary mismatch:\n got %q\nwant %q", out.String(), want)
	}

	if got := readFile(t, filepath.Join(dir, "1-grams.tsv")); got != "a\t2\nb\t2\n" {
		t.Fatalf("1-grams.tsv = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "2-grams.tsv")); got != "ab\t1\nba\t1\n" {
		t.Fatalf("2-grams.tsv = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "2-grams-uc.tsv")); got != "AB\t1\nBA\t1\n" {
		t.Fatalf("2-grams-uc.tsv = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "3-grams.tsv")); got != "" {
		t.Fatalf("3-grams.tsv = %q", got)
	}

	if len(summary.Tables) != 6 {
		t.Fatalf("summary tables = %d", len(summary.Tables))
	}
	if summary.Unique("2-grams-uc") != 2 || summary.Unique("missing") != -1 {
		t.Fatalf("unexpected Unique lookups in %+v", summary)
	}
	if summary.OutputClosed {
		t.Fatal("output should not be closed")
	}
}

func TestExportSortsByCountThenFirstSeen(t *testing.T) {
	dir := t.TempDir()
	acc := accumulate("zyzxx\\\t")

	if _, err := New(Options{Dir: dir}).Export(acc.Tables()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := "z\t2\nx\t2\ny\t1\n\\\\\t1\n\\x09\t1\n"
	if got := readFile(t, filepath.Join(dir, "1-grams.tsv")); got != want {
		t.Fatalf("1-grams.tsv = %q, want %q", got, want)
	}
}

func TestExportEmptyCorpusWritesSixEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	if _, err := New(Options{Dir: dir, Out: &out}).Export(ngram.NewAccumulator().Tables()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	for _, name := range tableFiles {
		if got := readFile(t, filepath.Join(dir, name)); got != "" {
			t.Fatalf("%s = %q, want empty", name, got)
		}
	}
	if !strings.HasPrefix(out.String(), "1-grams (unique): 0\n\n\n") {
		t.Fatalf("unexpected summary %q", out.String())
	}
}

func TestExportIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	acc := accumulate("The quick brown fox\r\n", "jumps over the lazy dog\x00")

	first, err := New(Options{Dir: dir}).Export(acc.Tables())
	if err != nil {
		t.Fatal(err)
	}
	before := map[string]string{}
	for _, name := range tableFiles {
		before[name] = readFile(t, filepath.Join(dir, name))
	}

	second, err := New(Options{Dir: dir}).Export(acc.Tables())
	if err != nil {
		t.Fatal(err)
	}
	for i, name := range tableFiles {
		if got := readFile(t, filepath.Join(dir, name)); got != before[name] {
			t.Fatalf("%s changed between exports", name)
		}
		if first.Tables[i].SHA256 != second.Tables[i].SHA256 {
			t.Fatalf("%s digest changed", name)
		}
	}
}

func TestExportSampleLimit(t *testing.T) {
	acc := accumulate("dcba\n")
	var out bytes.Buffer
	if _, err := New(Options{Dir: t.TempDir(), SampleLimit: 3, Out: &out}).Export(acc.Tables()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out.String(), "\n")
	if lines[1] != `\x0Aab` {
		t.Fatalf("sample line = %q", lines[1])
	}
}

func TestExportOutputCharset(t *testing.T) {
	latin1, err := textcodec.Lookup("latin1")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if _, err := New(Options{Dir: dir, Charset: latin1}).Export(accumulate("é").Tables()); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "1-grams.tsv")); got != "\xe9\t1\n" {
		t.Fatalf("1-grams.tsv = %q", got)
	}
}

func TestExportUnencodableRuneFails(t *testing.T) {
	latin1, err := textcodec.Lookup("latin1")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	_, err = New(Options{Dir: dir, Charset: latin1}).Export(accumulate("€").Tables())
	if err == nil {
		t.Fatal("expected encoding error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "1-grams.tsv")); !os.IsNotExist(statErr) {
		t.Fatalf("partial table left behind: %v", statErr)
	}
}

type brokenPipeWriter struct{ writes int }

func (w *brokenPipeWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, &os.PathError{Op: "write", Path: "/dev/stdout", Err: syscall.EPIPE}
}

func TestExportToleratesBrokenPipe(t *testing.T) {
	dir := t.TempDir()
	w := &brokenPipeWriter{}
	summary, err := New(Options{Dir: dir, Out: w}).Export(accumulate("abc").Tables())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !summary.OutputClosed {
		t.Fatal("expected OutputClosed")
	}
	if w.writes != 1 {
		t.Fatalf("printer kept writing after EPIPE: %d writes", w.writes)
	}
	for _, name := range tableFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
	}
}

func TestExportMissingDirFails(t *testing.T) {
	_, err := New(Options{Dir: filepath.Join(t.TempDir(), "nope")}).Export(accumulate("a").Tables())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFileNames(t *testing.T) {
	var got []string
	for n := 1; n <= ngram.MaxN; n++ {
		got = append(got, FileName(n, false), FileName(n, true))
	}
	if !slices.Equal(got, tableFiles) {
		t.Fatalf("file names = %v", got)
	}
}
