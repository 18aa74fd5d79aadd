package bot

import (
	"context"
	"fmt"
	"io"

	"NewsBriefing/internal/digest"
)

// StdoutNotifier prints segments instead of sending them, for --dry-run
type StdoutNotifier struct {
	out    io.Writer
	banner string
}

func NewStdoutNotifier(out io.Writer, banner string) *StdoutNotifier {
	return &StdoutNotifier{out: out, banner: banner}
}

func (n *StdoutNotifier) Deliver(ctx context.Context, seg digest.Segment) DeliveryResult {
	result := DeliveryResult{Ordinal: seg.Ordinal}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	text := seg.Text
	if seg.Ordinal == 0 && n.banner != "" {
		text = n.banner + "\n\n" + text
	}
	if _, err := fmt.Fprintf(n.out, "----- segment %d -----\n%s\n", seg.Ordinal, text); err != nil {
		result.Err = err
		return result
	}
	result.Success = true
	return result
}
