// Package tokens counts LLM tokens for rendered codemaps and source files.
package tokens

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// ErrUnknownEncoding is returned for encodings other than cl100k_base and o200k_base.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoding names a BPE vocabulary.
type Encoding string

const (
	Cl100kBase Encoding = "cl100k_base"
	O200kBase  Encoding = "o200k_base"

	DefaultEncoding = Cl100kBase
)

// Encodings lists the supported encodings.
var Encodings = []Encoding{Cl100kBase, O200kBase}

// ParseEncoding accepts full names and the short forms cl100k and o200k.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cl100k", "cl100k_base":
		return Cl100kBase, nil
	case "o200k", "o200k_base":
		return O200kBase, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

// Counter counts tokens in text. Count never fails and never returns a
// negative number.
type Counter interface {
	Count(text string) int
	Encoding() Encoding
}

// Estimate approximates tokens at four bytes per token.
func Estimate(text string) int {
	return (len(text) + 3) / 4
}

var loaderOnce sync.Once

// encoders caches one tokenizer per encoding for the life of the process.
var encoders = struct {
	sync.Mutex
	byName map[Encoding]*encoderSlot
}{byName: make(map[Encoding]*encoderSlot)}

type encoderSlot struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

func loadEncoder(encoding Encoding) (*tiktoken.Tiktoken, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	encoders.Lock()
	slot, ok := encoders.byName[encoding]
	if !ok {
		slot = &encoderSlot{}
		encoders.byName[encoding] = slot
	}
	encoders.Unlock()

	slot.once.Do(func() {
		slot.enc, slot.err = tiktoken.GetEncoding(string(encoding))
	})
	return slot.enc, slot.err
}

// bpeCounter counts with a tiktoken vocabulary, falling back to Estimate
// when the vocabulary could not be loaded.
type bpeCounter struct {
	encoding Encoding
	enc      *tiktoken.Tiktoken
}

// NewCounter returns a Counter for the named encoding. Only an unknown
// encoding name is an error; a vocabulary that fails to load degrades to
// the byte heuristic.
func NewCounter(name string) (Counter, error) {
	encoding, err := ParseEncoding(name)
	if err != nil {
		return nil, err
	}

	enc, err := loadEncoder(encoding)
	if err != nil {
		log.Printf("Warning: token encoder %s unavailable, estimating: %v", encoding, err)
	}
	return &bpeCounter{encoding: encoding, enc: enc}, nil
}

func (c *bpeCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.EncodeOrdinary(text))
}

func (c *bpeCounter) Encoding() Encoding {
	return c.encoding
}

// EstimateCounter is a Counter that only uses Estimate.
type EstimateCounter struct{}

func (EstimateCounter) Count(text string) int { return Estimate(text) }

func (EstimateCounter) Encoding() Encoding { return "" }
