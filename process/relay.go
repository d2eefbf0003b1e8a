package process

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DecodePolicy decides what the relay does with upstream lines that are not
// valid UTF-8.
type DecodePolicy int

const (
	// DecodeSkip drops the line and keeps relaying.
	DecodeSkip DecodePolicy = iota
	// DecodeFail stops the relay with a KindDecode error.
	DecodeFail
	// DecodePassthrough forwards the raw bytes.
	DecodePassthrough
)

var decodePolicyNames = map[DecodePolicy]string{
	DecodeSkip:        "skip",
	DecodeFail:        "fail",
	DecodePassthrough: "passthrough",
}

func (p DecodePolicy) String() string {
	if name, ok := decodePolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("DecodePolicy(%d)", int(p))
}

// ParseDecodePolicy parses "skip", "fail" or "passthrough". The empty string
// is DecodeSkip.
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	if s == "" {
		return DecodeSkip, nil
	}
	for p, name := range decodePolicyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return DecodeSkip, fmt.Errorf("unknown decode policy %q", s)
}

type relayConfig struct {
	decode          DecodePolicy
	checkUpstream   bool
	checkDownstream bool
}

// RelayOption configures Pipe and PipeToFile.
type RelayOption func(*relayConfig)

// WithDecodePolicy sets how undecodable upstream lines are handled.
// The default is DecodeSkip.
func WithDecodePolicy(p DecodePolicy) RelayOption {
	return func(c *relayConfig) { c.decode = p }
}

// WithUpstreamCheck makes a non-success upstream exit a KindChild error.
func WithUpstreamCheck() RelayOption {
	return func(c *relayConfig) { c.checkUpstream = true }
}

// WithDownstreamCheck makes a non-success downstream exit a KindChild error.
func WithDownstreamCheck() RelayOption {
	return func(c *relayConfig) { c.checkDownstream = true }
}

func newRelayConfig(opts []RelayOption) relayConfig {
	var cfg relayConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type relayStats struct {
	lines   int
	skipped int
}

// relayLines copies r to w one line at a time. Each forwarded line is
// followed by exactly one '\n'. It returns at EOF, at the first read or
// write failure, or at the first undecodable line under DecodeFail.
func relayLines(r io.Reader, w io.Writer, policy DecodePolicy, program string) (relayStats, error) {
	var stats relayStats
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for n := 1; ; n++ {
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			line = trimEOL(line)
			if !utf8.Valid(line) {
				switch policy {
				case DecodeFail:
					return stats, decodeError("relay", program, n)
				case DecodeSkip:
					stats.skipped++
					line = nil
				}
			}
			if line != nil {
				if _, err := bw.Write(line); err != nil {
					return stats, transportError("relay", program, err)
				}
				if err := bw.WriteByte('\n'); err != nil {
					return stats, transportError("relay", program, err)
				}
				stats.lines++
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return stats, transportError("relay", program, readErr)
		}
	}

	if err := bw.Flush(); err != nil {
		return stats, transportError("relay", program, err)
	}
	return stats, nil
}

// trimEOL strips a trailing "\n" or "\r\n". A lone trailing '\r' is kept.
func trimEOL(line []byte) []byte {
	if !bytes.HasSuffix(line, []byte{'\n'}) {
		return line
	}
	line = line[:len(line)-1]
	return bytes.TrimSuffix(line, []byte{'\r'})
}
