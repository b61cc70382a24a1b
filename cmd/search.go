package cmd

import (
	"bikefit/domain"
	"bikefit/repository"
	"bikefit/service"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newSearchCmd(a *app) *cobra.Command {
	var (
		dataset    string
		limit      int
		reachRange float64
		stackRange float64
		srMin      float64
		srMax      float64
		staMin     float64
		staMax     float64
		c          domain.SearchCriteria
	)

	cmd := &cobra.Command{
		Use:   "search --reach <mm> --stack <mm>",
		Short: "Find frames close to a reach and stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			setIfChanged(cmd, "reach-range", reachRange, &c.ReachRange)
			setIfChanged(cmd, "stack-range", stackRange, &c.StackRange)
			setIfChanged(cmd, "sr-ratio-min", srMin, &c.SRRatioMin)
			setIfChanged(cmd, "sr-ratio-max", srMax, &c.SRRatioMax)
			setIfChanged(cmd, "sta-min", staMin, &c.STAMin)
			setIfChanged(cmd, "sta-max", staMax, &c.STAMax)
			if limit <= 0 {
				limit = a.cfg.Search.MaxResults
			}

			var bikes repository.BikeRepository
			if dataset != "" {
				records, skipped, err := repository.LoadBikesCSVFile(dataset)
				if err != nil {
					return err
				}
				if skipped > 0 {
					a.logger.Warn("skipped dataset rows without reach or stack", zap.Int("skipped", skipped))
				}
				bikes = repository.NewBikeRepositoryMemory(records)
			} else {
				st, err := openStores(ctx, a.cfg, a.logger)
				if err != nil {
					return err
				}
				defer st.Close()
				bikes = st.bikes
			}

			res, err := service.NewSearchService(bikes, limit, a.logger).Search(ctx, c)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&c.ReachTarget, "reach", 0, "target reach in mm (required)")
	f.Float64Var(&c.StackTarget, "stack", 0, "target stack in mm (required)")
	f.Float64Var(&reachRange, "reach-range", 0, "accepted reach deviation in mm (default 10)")
	f.Float64Var(&stackRange, "stack-range", 0, "accepted stack deviation in mm (default 10)")
	f.StringSliceVar(&c.Brands, "brand", nil, "only these brands (repeatable)")
	f.StringSliceVar(&c.Materials, "material", nil, "only these frame materials (repeatable)")
	f.StringVar(&c.Style, "style", "", "only this riding style")
	f.Float64Var(&srMin, "sr-ratio-min", 0, "minimum stack/reach ratio")
	f.Float64Var(&srMax, "sr-ratio-max", 0, "maximum stack/reach ratio")
	f.Float64Var(&staMin, "sta-min", 0, "minimum seat tube angle in degrees")
	f.Float64Var(&staMax, "sta-max", 0, "maximum seat tube angle in degrees")
	f.StringVar(&dataset, "dataset", "", "search this CSV instead of the configured store")
	f.IntVar(&limit, "limit", 0, "maximum results (default search.max_results)")
	_ = cmd.MarkFlagRequired("reach")
	_ = cmd.MarkFlagRequired("stack")
	return cmd
}

// setIfChanged sets dst only when the flag was given, so an unset bound stays
// open.
func setIfChanged(cmd *cobra.Command, name string, v float64, dst *domain.Number) {
	if cmd.Flags().Changed(name) {
		*dst = domain.Num(v)
	}
}
