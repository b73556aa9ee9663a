package cmd

import (
	"strconv"

	"github.com/spf13/pflag"
	"github.com/treeverse/git-recycle-bin/pkg/config"
)

// yesNoValue is a bool flag that also accepts yes/no, y/n and t/f, so --push=yes works as
// GITRB_PUSH=yes does
type yesNoValue bool

func (b *yesNoValue) Set(s string) error {
	v, err := config.ParseBool(s)
	if err != nil {
		return err
	}
	*b = yesNoValue(v)
	return nil
}

func (b *yesNoValue) String() string {
	return strconv.FormatBool(bool(*b))
}

func (*yesNoValue) Type() string {
	return "bool"
}

// yesNoFlag defines a boolean flag which may be given without a value
func yesNoFlag(flags *pflag.FlagSet, name string, value bool, usage string) {
	v := yesNoValue(value)
	flags.Var(&v, name, usage)
	flags.Lookup(name).NoOptDefVal = "true"
}
