package memory

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CommandRequest is the adapter's input. Callers may populate Command alone
// (a single string containing the verb and arguments inline) or the split
// form (Command holding just the verb, Key/Value holding the arguments).
type CommandRequest struct {
	Command string
	Key     string
	Value   string
}

// Response is the adapter's structured output. Exactly the fields relevant
// to the executed command are populated; a malformed or missing-key command
// sets Status/Error rather than returning a Go error.
type Response struct {
	Status        string
	Error         string
	Value         string
	Meta          *Metadata
	Keys          []string
	KeysWithMeta  []KeyMetadata
	TotalBytes    int
	KeysBytes     int
	ValuesBytes   int
	Specification string
}

// KeyMetadata pairs a key with its metadata for a `L META` listing.
type KeyMetadata struct {
	Key       string
	AddedUTC  time.Time
	ExpiresIn time.Duration
}

var verbAliases = map[string]string{
	"GET":    "G",
	"PUT":    "P",
	"LIST":   "L",
	"DELETE": "D",
	"CLEAR":  "C",
}

// Protocol adapts a Store to a succinct textual wire protocol, so it can
// also be exposed through the generic tool protocol.
type Protocol struct {
	store *Store
}

// NewProtocol wraps store in the wire protocol adapter.
func NewProtocol(store *Store) *Protocol {
	return &Protocol{store: store}
}

// Execute normalizes req to the inline form, tokenizes it, and dispatches to
// the matching command.
func (p *Protocol) Execute(req CommandRequest) Response {
	tokens := normalize(req)
	if len(tokens) == 0 {
		return Response{Status: "ERR", Error: "empty command"}
	}
	verb := strings.ToUpper(tokens[0])
	if full, ok := verbAliases[verb]; ok {
		verb = full
	}
	args := tokens[1:]

	switch verb {
	case "P":
		return p.put(args)
	case "G":
		return p.get(args)
	case "L":
		return p.list(args)
	case "D":
		return p.del(args)
	case "C":
		p.store.Clear()
		return Response{Status: "OK"}
	case "T":
		return p.total(args)
	case "SPEC":
		return Response{Specification: Specification()}
	default:
		return Response{Status: "ERR", Error: "unknown command: " + verb}
	}
}

// normalize builds the token list from either input shape. Split-form
// Key/Value are appended after the verb when Command carries only the verb.
func normalize(req CommandRequest) []string {
	fields := strings.Fields(req.Command)
	if len(fields) == 0 {
		return nil
	}
	if req.Key == "" && req.Value == "" {
		return fields
	}
	// Split form: fields[0] is the verb, Key/Value supply the rest.
	out := []string{fields[0]}
	if req.Key != "" {
		out = append(out, req.Key)
	}
	if req.Value != "" {
		out = append(out, req.Value)
	}
	out = append(out, fields[1:]...)
	return out
}

func (p *Protocol) put(args []string) Response {
	if len(args) < 2 {
		return Response{Status: "ERR", Error: "usage: P <key> <value> [ttl]"}
	}
	var ttl time.Duration
	if len(args) >= 3 {
		secs, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return Response{Status: "ERR", Error: "invalid ttl: " + args[2]}
		}
		ttl = time.Duration(secs * float64(time.Second))
	}
	p.store.Put(args[0], args[1], ttl)
	return Response{Status: "OK"}
}

func (p *Protocol) get(args []string) Response {
	if len(args) < 1 {
		return Response{Status: "ERR", Error: "usage: G <key> [META]"}
	}
	wantMeta := len(args) >= 2 && strings.EqualFold(args[1], "META")
	value, meta, ok := p.store.Get(args[0], wantMeta)
	if !ok {
		return Response{Status: "ERR:NOT_FOUND"}
	}
	return Response{Value: value, Meta: meta}
}

func (p *Protocol) list(args []string) Response {
	wantMeta := len(args) >= 1 && strings.EqualFold(args[0], "META")
	if !wantMeta {
		return Response{Keys: p.store.ListKeys()}
	}
	withMeta := p.store.ListWithMetadata()
	out := make([]KeyMetadata, 0, len(withMeta))
	for k, m := range withMeta {
		out = append(out, KeyMetadata{Key: k, AddedUTC: m.AddedUTC, ExpiresIn: m.ExpiresIn})
	}
	return Response{KeysWithMeta: out}
}

func (p *Protocol) del(args []string) Response {
	if len(args) < 1 {
		return Response{Status: "ERR", Error: "usage: D <key>"}
	}
	if !p.store.Delete(args[0]) {
		return Response{Status: "ERR:NOT_FOUND"}
	}
	return Response{Status: "OK"}
}

func (p *Protocol) total(args []string) Response {
	if len(args) < 1 {
		return Response{Status: "ERR", Error: "usage: T A|K|V"}
	}
	counts := p.store.TotalBytes()
	switch strings.ToUpper(args[0]) {
	case "A":
		return Response{TotalBytes: counts.Total}
	case "K":
		return Response{KeysBytes: counts.Keys}
	case "V":
		return Response{ValuesBytes: counts.Values}
	default:
		return Response{Status: "ERR", Error: "usage: T A|K|V"}
	}
}

// Specification returns the protocol help string returned by the SPEC
// command.
func Specification() string {
	return fmt.Sprintf(`Memory protocol commands (whitespace-separated tokens):
  P <key> <value> [ttl]   put, ttl in seconds, omit for no expiry
  G <key> [META]          get, META includes added_utc/expires_in
  L [META]                list keys, META includes metadata per key
  D <key>                 delete
  C                       clear all entries
  T A|K|V                 total/keys/values byte count
  SPEC                    this text
Aliases: GET=G PUT=P LIST=L DELETE=D CLEAR=C. Values are single tokens;
base64-encode or use a file tool for arbitrary bytes.`)
}
