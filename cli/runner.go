package cli

import (
	"context"
	"errors"
	"io"

	"github.com/jessevdk/go-flags"
)

// Run parses args and executes the selected command, writing results to stdout.
func Run(ctx context.Context, args []string, stdout io.Writer) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "tenantctl"
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			_, _ = io.WriteString(stdout, flagsErr.Message+"\n")
			return nil
		}
		return err
	}
	service, err := New(ctx, options, stdout)
	if err != nil {
		return err
	}
	defer service.Close()
	return service.Execute(ctx, parser.Active.Name)
}
