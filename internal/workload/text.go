package workload

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var vocabulary = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "python",
	"lambda", "function", "performance", "test", "data", "processing",
	"algorithm", "memory", "cpu", "benchmark",
}

var matchPatterns = []string{
	`\b\w{4,}\b`,     // words with 4+ characters
	`\b[aeiou]\w*`,   // words starting with a vowel
	`\w*ing\b`,       // words ending with 'ing'
	`\b\w*test\w*\b`, // words containing 'test'
}

var compiledPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(matchPatterns))
	for i, p := range matchPatterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}()

var replacements = [][2]string{
	{"the", "THE"},
	{"and", "AND"},
	{"test", "TEST"},
	{"data", "DATA"},
}

type Hashing struct {
	Time   float64 `json:"time"`
	MD5    string  `json:"md5"`
	SHA1   string  `json:"sha1"`
	SHA256 string  `json:"sha256"`
	SHA512 string  `json:"sha512"`
}

type PatternMatch struct {
	Pattern       string `json:"pattern"`
	MatchesFound  int    `json:"matches_found"`
	UniqueMatches int    `json:"unique_matches"`
}

type Replacements struct {
	TotalReplacements int `json:"total_replacements"`
	FinalTextLength   int `json:"final_text_length"`
}

// PatternMatching is encoded as a flat object where the per-pattern results
// are keyed pattern_1, pattern_2 and so on.
type PatternMatching struct {
	Time         float64
	Patterns     []PatternMatch
	Replacements Replacements
	TotalMatches int
}

func (pm PatternMatching) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(pm.Patterns)+3)
	out["time"] = pm.Time
	out["replacements"] = pm.Replacements
	out["total_matches"] = pm.TotalMatches
	for i, p := range pm.Patterns {
		out[fmt.Sprintf("pattern_%d", i+1)] = p
	}
	return json.Marshal(out)
}

type CharCount struct {
	Char  string
	Count int
}

// CharFrequencies is encoded as an object mapping each character to its
// count, with the members in slice order.
type CharFrequencies []CharCount

func (f CharFrequencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Char)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Compression struct {
	Time                     float64         `json:"time"`
	OriginalLength           int             `json:"original_length"`
	UniqueCharacters         int             `json:"unique_characters"`
	MostFrequentChar         string          `json:"most_frequent_char"`
	CompressionRatioEstimate float64         `json:"compression_ratio_estimate"`
	CharacterFrequencies     CharFrequencies `json:"character_frequencies"`
}

type WordCount struct {
	Word  string
	Count int
}

// MarshalJSON encodes the pair as [word, count].
func (w WordCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{w.Word, w.Count})
}

type TextAnalysis struct {
	Time               float64     `json:"time"`
	TotalWords         int         `json:"total_words"`
	UniqueWords        int         `json:"unique_words"`
	AverageWordLength  float64     `json:"average_word_length"`
	MostCommonWords    []WordCount `json:"most_common_words"`
	VocabularyRichness float64     `json:"vocabulary_richness"`
}

type TextIteration struct {
	Iteration       int             `json:"iteration"`
	Hashing         Hashing         `json:"hashing"`
	PatternMatching PatternMatching `json:"pattern_matching"`
	Compression     Compression     `json:"compression"`
	TextAnalysis    TextAnalysis    `json:"text_analysis"`
}

type TextResult struct {
	Operation         Operation       `json:"operation"`
	TextSize          int             `json:"text_size"`
	Iterations        int             `json:"iterations"`
	ProcessingResults []TextIteration `json:"processing_results"`
	Summary
}

func (r *TextResult) PhaseTime() float64 {
	var t float64
	for _, it := range r.ProcessingResults {
		t += it.Hashing.Time + it.PatternMatching.Time + it.Compression.Time + it.TextAnalysis.Time
	}
	return t
}

// StringProcessingWorkload hashes, searches, rewrites and analyses a random
// text of at most textSize bytes.
func StringProcessingWorkload(textSize, iterations int, seed int64) *TextResult {
	res := &TextResult{
		Operation:         StringProcessing,
		TextSize:          textSize,
		Iterations:        iterations,
		ProcessingResults: make([]TextIteration, 0, iterations),
	}

	for i := 0; i < iterations; i++ {
		text := generateText(iterationRand(seed, i), textSize)
		it := TextIteration{Iteration: i + 1}

		it.Hashing.Time = timed(func() { hashText(text, &it.Hashing) })
		it.PatternMatching.Time = timed(func() { matchPatternsIn(text, &it.PatternMatching) })
		it.Compression.Time = timed(func() { simulateCompression(text, &it.Compression) })
		it.TextAnalysis.Time = timed(func() { analyseText(text, &it.TextAnalysis) })

		res.ProcessingResults = append(res.ProcessingResults, it)
	}
	return res
}

func generateText(rng *rand.Rand, size int) string {
	var sb strings.Builder
	parts := 0
	current := 0
	for current < size {
		word := vocabulary[rng.Intn(len(vocabulary))]
		if current+len(word)+1 > size {
			break
		}
		if parts > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
		parts++
		current += len(word) + 1
	}
	return sb.String()
}

func hashText(text string, h *Hashing) {
	b := []byte(text)
	md5Sum := md5.Sum(b)
	sha1Sum := sha1.Sum(b)
	sha256Sum := sha256.Sum256(b)
	sha512Sum := sha512.Sum512(b)
	h.MD5 = hex.EncodeToString(md5Sum[:])
	h.SHA1 = hex.EncodeToString(sha1Sum[:])
	h.SHA256 = hex.EncodeToString(sha256Sum[:])
	h.SHA512 = hex.EncodeToString(sha512Sum[:])
}

func matchPatternsIn(text string, pm *PatternMatching) {
	pm.Patterns = make([]PatternMatch, 0, len(compiledPatterns))
	for i, re := range compiledPatterns {
		matches := re.FindAllString(text, -1)
		unique := make(map[string]struct{}, len(matches))
		for _, m := range matches {
			unique[m] = struct{}{}
		}
		pm.Patterns = append(pm.Patterns, PatternMatch{
			Pattern:       matchPatterns[i],
			MatchesFound:  len(matches),
			UniqueMatches: len(unique),
		})
		pm.TotalMatches += len(matches)
	}

	modified := text
	for _, r := range replacements {
		pm.Replacements.TotalReplacements += strings.Count(modified, r[0])
		modified = strings.ReplaceAll(modified, r[0], r[1])
	}
	pm.Replacements.FinalTextLength = utf8.RuneCountInString(modified)
}

func simulateCompression(text string, c *Compression) {
	counts := make(map[rune]int)
	var order []rune
	total := 0
	for _, r := range text {
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
		total++
	}

	freqs := make(CharFrequencies, len(order))
	for i, r := range order {
		freqs[i] = CharCount{Char: string(r), Count: counts[r]}
	}
	// stable: equal counts keep first-occurrence order
	sort.SliceStable(freqs, func(i, j int) bool { return freqs[i].Count > freqs[j].Count })

	c.OriginalLength = total
	c.UniqueCharacters = len(order)
	if total > 0 {
		c.CompressionRatioEstimate = float64(len(order)) / float64(total)
	}
	if len(freqs) > 0 {
		c.MostFrequentChar = freqs[0].Char
	}
	if len(freqs) > 10 {
		freqs = freqs[:10]
	}
	c.CharacterFrequencies = freqs
}

func analyseText(text string, ta *TextAnalysis) {
	words := strings.Fields(strings.ToLower(text))

	counts := make(map[string]int)
	var order []string
	totalLen := 0
	for _, w := range words {
		totalLen += utf8.RuneCountInString(w)
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, w)
		if clean == "" {
			continue
		}
		if counts[clean] == 0 {
			order = append(order, clean)
		}
		counts[clean]++
	}

	common := make([]WordCount, len(order))
	for i, w := range order {
		common[i] = WordCount{Word: w, Count: counts[w]}
	}
	sort.SliceStable(common, func(i, j int) bool { return common[i].Count > common[j].Count })
	if len(common) > 10 {
		common = common[:10]
	}

	ta.TotalWords = len(words)
	ta.UniqueWords = len(order)
	ta.MostCommonWords = common
	if len(words) > 0 {
		ta.AverageWordLength = float64(totalLen) / float64(len(words))
		ta.VocabularyRichness = float64(len(order)) / float64(len(words))
	}
}
