package app

import (
	"flag"
	"fmt"
	"io"

	"galeranotify/internal/status"
)

// optionalString is a flag that remembers whether it was supplied, so an
// explicitly empty value can be told apart from an absent one.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string {
	if o == nil {
		return ""
	}
	return o.value
}

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

// Ptr returns nil when the flag was not supplied.
func (o *optionalString) Ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

type options struct {
	uuid    optionalString
	index   optionalString
	status  optionalString
	primary optionalString
	members optionalString

	debug      bool
	configPath string
	logLevel   string
}

// snapshot folds the wsrep fields into a status snapshot, in the order
// Galera documents them.
func (o *options) snapshot(server string) status.Snapshot {
	return status.NewBuilder(server).
		UUID(o.uuid.Ptr()).
		Index(o.index.Ptr()).
		Status(o.status.Ptr()).
		Primary(o.primary.Ptr()).
		Members(o.members.Ptr()).
		Build()
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("galeranotify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: galeranotify [--status S] [--uuid U] [--primary yes|no] [--members A,B,...] [--index N] [--debug] [--config PATH]")
		fmt.Fprintln(fs.Output(), "Galera wsrep notification command.")
		fs.PrintDefaults()
	}

	both := func(v flag.Value, short, long, usage string) {
		fs.Var(v, short, usage)
		fs.Var(v, long, usage)
	}
	both(&o.uuid, "u", "uuid", "cluster state `UUID`")
	both(&o.index, "i", "index", "`INDEX` of this node in the member list")
	both(&o.status, "s", "status", "node `STATUS`")
	both(&o.primary, "p", "primary", "node primary state `yes|no`")
	both(&o.members, "m", "members", "comma-separated list of the component `MEMBERS`")

	fs.BoolVar(&o.debug, "d", false, "print the report and exit without notifying")
	fs.BoolVar(&o.debug, "debug", false, "print the report and exit without notifying")
	fs.StringVar(&o.configPath, "c", "", "config file `PATH` (default "+defaultConfigHint+")")
	fs.StringVar(&o.configPath, "config", "", "config file `PATH` (default "+defaultConfigHint+")")
	fs.StringVar(&o.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %q", fs.Args())
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return nil, err
	}
	return o, nil
}
