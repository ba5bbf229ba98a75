package config

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// The config hashes are cache identities: they must be pure functions of the
// output-affecting fields, independent of list order, and stable across
// process restarts. Canonical form: every list sorted, every scalar
// stringified, fields NUL-separated within a section and double-NUL-separated
// between sections, digested with SHA-256 and truncated to 64 bits.

// LinterHash fingerprints the linter-output-affecting fields.
func LinterHash(s *LinterSettings) uint64 {
	var b strings.Builder
	writeSortedList(&b, s.Select)
	writeSortedList(&b, s.ExtendSelect)
	writeSortedList(&b, s.Ignore)
	writeSortedList(&b, s.Configure)
	writeSortedList(&b, s.CustomRules)
	writeScalar(&b, strconv.Itoa(int(s.Threshold)))
	writeScalar(&b, s.TargetVersion)
	writePerFileIgnores(&b, s.PerFileIgnores)
	return truncatedDigest(b.String())
}

// FormatterHash fingerprints the formatter-output-affecting fields. It is
// independent of LinterHash so the two caches invalidate separately.
func FormatterHash(s *FormatterSettings) uint64 {
	var b strings.Builder
	writeSortedList(&b, s.Select)
	writeSortedList(&b, s.Configure)
	writeSortedList(&b, s.Skip)
	writeScalar(&b, strconv.Itoa(s.SpaceCount))
	writeScalar(&b, strconv.Itoa(s.Indent))
	writeScalar(&b, strconv.Itoa(s.LineLength))
	writeScalar(&b, s.Separator)
	writeScalar(&b, s.LineEnding)
	writeScalar(&b, s.TargetVersion)
	return truncatedDigest(b.String())
}

// CombinedFingerprint is a short display-only digest of both hashes and the
// language list. It never participates in cache validity decisions, so a
// fast non-cryptographic hash is fine here.
func CombinedFingerprint(linterHash, formatterHash uint64, languages []string) string {
	d := xxhash.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], linterHash)
	_, _ = d.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], formatterHash)
	_, _ = d.Write(buf[:])
	sorted := append([]string(nil), languages...)
	sort.Strings(sorted)
	for _, lang := range sorted {
		_, _ = d.WriteString(lang)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

func writeSortedList(b *strings.Builder, list []string) {
	sorted := append([]string(nil), list...)
	sort.Strings(sorted)
	for _, item := range sorted {
		b.WriteString(item)
		b.WriteByte(0)
	}
	b.WriteByte(0)
}

func writeScalar(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteByte(0)
	b.WriteByte(0)
}

func writePerFileIgnores(b *strings.Builder, ignores map[string][]string) {
	globs := make([]string, 0, len(ignores))
	for glob := range ignores {
		globs = append(globs, glob)
	}
	sort.Strings(globs)
	for _, glob := range globs {
		b.WriteString(glob)
		b.WriteByte(1)
		writeSortedList(b, ignores[glob])
	}
	b.WriteByte(0)
}

func truncatedDigest(canonical string) uint64 {
	sum := sha256.Sum256([]byte(canonical))
	return binary.BigEndian.Uint64(sum[:8])
}
