package present

import (
	"os"

	"github.com/fatih/color"

	"github.com/diffpatch/diffpatch/internal/config"
	"github.com/diffpatch/diffpatch/internal/session"
)

// New builds the presenter variant selected by the options. When stdout is
// not a terminal the immediate and inline-clear settings are silently
// downgraded so piped runs behave like plain direct output with buffered
// input.
func New(opts config.Options, in, out *os.File) session.Presenter {
	iface := opts.Interface
	immediate := opts.ImmediateCommand

	if !isTerminal(out) {
		iface = config.InterfaceDirect
		immediate = false
	}
	if opts.NoColor {
		color.NoColor = true
	}

	switch iface {
	case config.InterfaceFullscreen:
		return NewFullscreen(in, out)
	case config.InterfaceInlineClear:
		return NewInlineClear(in, out, immediate)
	default:
		return NewDirect(in, out, immediate)
	}
}
