package linear

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/utils"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Maximal runs of two or more word characters, the Go form of (?u)\b\w\w+\b
const defaultTokenPattern = `[\p{L}\p{N}_]{2,}`

// VectorizerSpec is the exported state of a fitted TF-IDF vectorizer
type VectorizerSpec struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	NgramRange   []int          `json:"ngram_range"`
	Lowercase    *bool          `json:"lowercase"`
	StripAccents string         `json:"strip_accents"`
	StopWords    []string       `json:"stop_words"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Norm         string         `json:"norm"`
	UseIDF       *bool          `json:"use_idf"`
	TokenPattern string         `json:"token_pattern"`
}

// Vectorizer is a read-only TF-IDF vectorizer
type Vectorizer struct {
	vocabulary   map[string]int
	idf          []float64
	minN, maxN   int
	lowercase    bool
	stripAccents string
	stopWords    map[string]struct{}
	sublinearTF  bool
	norm         string
	useIDF       bool
	token        *regexp.Regexp
	maxTextBytes int
	textProc     *utils.TextProcessor
}

// NewVectorizer validates an exported vectorizer and builds a Vectorizer
func NewVectorizer(spec *VectorizerSpec, textProc *utils.TextProcessor, maxTextBytes int) (*Vectorizer, error) {
	if len(spec.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrInvalidModel)
	}

	dim := len(spec.Vocabulary)
	for term, idx := range spec.Vocabulary {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("%w: vocabulary index %d for %q out of range", ErrInvalidModel, idx, term)
		}
	}

	v := &Vectorizer{
		vocabulary:   spec.Vocabulary,
		idf:          spec.IDF,
		minN:         1,
		maxN:         1,
		lowercase:    spec.Lowercase == nil || *spec.Lowercase,
		stripAccents: spec.StripAccents,
		stopWords:    make(map[string]struct{}, len(spec.StopWords)),
		sublinearTF:  spec.SublinearTF,
		norm:         spec.Norm,
		useIDF:       spec.UseIDF == nil || *spec.UseIDF,
		maxTextBytes: maxTextBytes,
		textProc:     textProc,
	}

	if v.useIDF && len(spec.IDF) != dim {
		return nil, fmt.Errorf("%w: %d idf weights for %d terms", ErrInvalidModel, len(spec.IDF), dim)
	}

	switch len(spec.NgramRange) {
	case 0:
	case 2:
		v.minN, v.maxN = spec.NgramRange[0], spec.NgramRange[1]
		if v.minN < 1 || v.maxN < v.minN {
			return nil, fmt.Errorf("%w: invalid ngram_range %v", ErrInvalidModel, spec.NgramRange)
		}
	default:
		return nil, fmt.Errorf("%w: invalid ngram_range %v", ErrInvalidModel, spec.NgramRange)
	}

	switch v.norm {
	case "":
		v.norm = "l2"
	case "l1", "l2", "none":
	default:
		return nil, fmt.Errorf("%w: unsupported norm %q", ErrInvalidModel, v.norm)
	}

	switch v.stripAccents {
	case "", "unicode", "ascii":
	default:
		return nil, fmt.Errorf("%w: unsupported strip_accents %q", ErrInvalidModel, v.stripAccents)
	}

	pattern, err := translateTokenPattern(spec.TokenPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token_pattern: %w", ErrInvalidModel, err)
	}
	token, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token_pattern: %w", ErrInvalidModel, err)
	}
	if token.NumSubexp() > 1 {
		return nil, fmt.Errorf("%w: token_pattern has more than one capture group", ErrInvalidModel)
	}
	v.token = token

	for _, w := range spec.StopWords {
		v.stopWords[w] = struct{}{}
	}

	return v, nil
}

// Dim returns the number of features
func (v *Vectorizer) Dim() int {
	return len(v.vocabulary)
}

// Transform vectorizes a single document
func (v *Vectorizer) Transform(ctx context.Context, text string) (*core.FeatureVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text = v.textProc.ProcessText(text, v.maxTextBytes)

	counts := make(map[int]float64)
	for _, term := range v.terms(v.preprocess(text)) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	fv := &core.FeatureVector{
		Dim:     len(v.vocabulary),
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		fv.Indices = append(fv.Indices, idx)
	}
	sort.Ints(fv.Indices)

	for _, idx := range fv.Indices {
		tf := counts[idx]
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		if v.useIDF {
			tf *= v.idf[idx]
		}
		fv.Values = append(fv.Values, tf)
	}

	normalize(fv.Values, v.norm)
	return fv, nil
}

func (v *Vectorizer) preprocess(text string) string {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	switch v.stripAccents {
	case "unicode":
		t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
		if out, _, err := transform.String(t, text); err == nil {
			text = out
		}
	case "ascii":
		t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })))
		if out, _, err := transform.String(t, text); err == nil {
			text = out
		}
	}
	return text
}

// terms tokenizes, removes stop words and expands word n-grams
func (v *Vectorizer) terms(text string) []string {
	var tokens []string
	if v.token.NumSubexp() == 1 {
		for _, m := range v.token.FindAllStringSubmatch(text, -1) {
			tokens = append(tokens, m[1])
		}
	} else {
		tokens = v.token.FindAllString(text, -1)
	}

	if len(v.stopWords) > 0 {
		kept := tokens[:0]
		for _, t := range tokens {
			if _, stop := v.stopWords[t]; !stop {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	if v.minN == 1 && v.maxN == 1 {
		return tokens
	}

	var terms []string
	for n := v.minN; n <= v.maxN && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func normalize(values []float64, kind string) {
	var total float64
	switch kind {
	case "l2":
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
