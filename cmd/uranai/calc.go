package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/uranai-api/internal/domain"
	"github.com/phrazzld/uranai-api/internal/service"
)

// systemAliases maps the short CLI names to systems.
var systemAliases = map[string]domain.SystemType{
	"numerology":  domain.SystemNumerology,
	"fourpillars": domain.SystemFourPillars,
	"sanmei":      domain.SystemSanmei,
	"animal":      domain.SystemAnimalFortune,
	"mbti":        domain.SystemMBTI,
}

type calcFlags struct {
	name      string
	birthdate string
	birthtime string
	gender    string
	mbtiType  string
	asOf      string
	compact   bool
}

func newCalcCmd(opts *cliOptions) *cobra.Command {
	flags := &calcFlags{}

	cmd := &cobra.Command{
		Use:   "calc {numerology|fourpillars|sanmei|animal|mbti}",
		Short: "Run a calculator and print the profile as JSON",
		Example: `  uranai calc numerology --name Taro --birthdate 1990-05-15
  uranai calc fourpillars --birthdate 1990-05-15 --birthtime 14:30 --gender male
  uranai calc sanmei --birthdate 1985-12-03 --gender female --as-of 2030-01-01
  uranai calc mbti --type INTJ`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"numerology", "fourpillars", "sanmei", "animal", "mbti"},
		RunE: func(cmd *cobra.Command, args []string) error {
			system, err := resolveSystem(args[0])
			if err != nil {
				return err
			}

			in := service.DivinationInput{
				Name:            flags.name,
				Birthdate:       flags.birthdate,
				Birthtime:       flags.birthtime,
				Gender:          flags.gender,
				PersonalityType: flags.mbtiType,
			}
			if flags.asOf != "" {
				in.AsOf, err = time.Parse(time.DateOnly, flags.asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of %q: want YYYY-MM-DD", flags.asOf)
				}
			}

			svc := service.NewDivinationService(nil, nil, opts.logger(cmd))
			profile, err := svc.Calculate(cmd.Context(), system, in)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			if !flags.compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(profile)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.name, "name", "", "person's name")
	f.StringVar(&flags.birthdate, "birthdate", "", "birth date, YYYY-MM-DD")
	f.StringVar(&flags.birthtime, "birthtime", "", "birth time, HH:MM")
	f.StringVar(&flags.gender, "gender", "", "male or female")
	f.StringVar(&flags.mbtiType, "type", "", "four-letter MBTI code")
	f.StringVar(&flags.asOf, "as-of", "", "reference date for sanmei fortunes, YYYY-MM-DD (default today)")
	f.BoolVar(&flags.compact, "compact", false, "print JSON on one line")

	return cmd
}

func resolveSystem(arg string) (domain.SystemType, error) {
	if system, ok := systemAliases[strings.ToLower(arg)]; ok {
		return system, nil
	}
	return domain.ParseSystemType(arg)
}
