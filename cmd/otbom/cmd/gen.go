package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceBOM/internal/config"
	"github.com/OpenTraceLab/OpenTraceBOM/internal/datasheet"
	"github.com/OpenTraceLab/OpenTraceBOM/internal/logging"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/netlist"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/output"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing/cache"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing/digikey"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/pricing/mouser"
)

const connectivityProbe = "8.8.8.8:443"

var genFlags struct {
	preset        string
	columnsPreset string
	groupPreset   string
	groupBy       string
	columns       string
	appendColumns string
	appendGroups  string

	ignoreMPNs           string
	removeIgnoreMPNParts bool

	primarySupplier   string
	secondarySupplier string
	primaryOnly       bool
	noPricing         bool
	currency          string
	boardQuantity     int

	sumFlag            bool
	info               bool
	noHeaders          bool
	downloadDatasheets bool

	keepExcludeBOM   bool
	keepExcludeBoard bool
}

var genCmd = &cobra.Command{
	Use:   "gen <input> [output]",
	Short: "Generate a Bill of Materials",
	Long: `Generate a BOM from a KiCad schematic (.kicad_sch) or an XML netlist
exported from KiCad's BOM dialog. The output format follows the output
file extension: csv, txt, html, xlsx, or pdf. Without an output argument
a timestamped CSV is written to the working directory.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)

	f := genCmd.Flags()
	f.StringVar(&genFlags.preset, "preset", "default", "set both the columns and group presets at once; overridden by --columns-preset and --group-preset")
	f.StringVar(&genFlags.columnsPreset, "columns-preset", "", "column preset to output; see 'otbom list column-presets'")
	f.StringVar(&genFlags.groupPreset, "group-preset", "", "group preset; see 'otbom list group-presets'")
	f.StringVarP(&genFlags.groupBy, "group-by", "g", "", "comma-separated symbol fields to group by; 'Value' and 'Footprint' are mandatory")
	f.StringVarP(&genFlags.columns, "columns", "c", "", "comma-separated columns to output; see 'otbom list columns'")
	f.StringVarP(&genFlags.appendColumns, "append-columns", "a", "", "columns to append to the selected preset")
	f.StringVar(&genFlags.appendGroups, "append-groups", "", "group fields to append to the selected preset")

	f.StringVar(&genFlags.ignoreMPNs, "ignore-mpns", "", "extra MPN values to ignore, appended to the built-in ignore set")
	f.BoolVar(&genFlags.removeIgnoreMPNParts, "remove-ignore-mpn-parts", false, "drop parts whose MPN is in the ignore set from the BOM")

	f.StringVarP(&genFlags.primarySupplier, "primary-supplier", "p", "Mouser", "primary supplier; see 'otbom list suppliers'")
	f.StringVarP(&genFlags.secondarySupplier, "secondary-supplier", "s", "DigiKey", "secondary supplier; see 'otbom list suppliers'")
	f.BoolVarP(&genFlags.primaryOnly, "primary-only", "u", false, "only query the primary supplier")
	f.BoolVarP(&genFlags.noPricing, "no-pricing", "k", false, "disable the supplier pricing integration")
	f.StringVar(&genFlags.currency, "currency", "GBP", "currency for prices: GBP, USD, or EUR")
	f.IntVarP(&genFlags.boardQuantity, "board-quantity", "b", 1, "number of boards being built")

	f.BoolVar(&genFlags.sumFlag, "sum", false, "append the total price sum after the table")
	f.BoolVar(&genFlags.info, "info", false, "append general info (board quantity, schematic, component count, date, generator)")
	f.BoolVar(&genFlags.noHeaders, "no-headers", false, "don't output the column header row")
	f.BoolVarP(&genFlags.downloadDatasheets, "download-datasheets", "d", false, "download datasheets with valid URLs into a 'datasheets' folder")

	f.BoolVar(&genFlags.keepExcludeBOM, "keep-exclude-from-bom", false, "keep components with the 'Exclude from BOM' property set")
	f.BoolVar(&genFlags.keepExcludeBoard, "keep-exclude-from-board", false, "keep components with the 'Exclude from board' property set")
}

func runGen(cmd *cobra.Command, args []string) error {
	printTitle()
	log := logging.New(quiet)
	defer log.Sync()

	columnsPreset, groupPreset, err := resolvePresets()
	if err != nil {
		return err
	}
	if !pricing.IsSupportedSupplier(genFlags.primarySupplier) {
		return fmt.Errorf("primary supplier '%s' not supported", genFlags.primarySupplier)
	}
	if !pricing.IsSupportedSupplier(genFlags.secondarySupplier) {
		return fmt.Errorf("secondary supplier '%s' not supported", genFlags.secondarySupplier)
	}
	if !pricing.IsSupportedCurrency(genFlags.currency) {
		return fmt.Errorf("currency '%s' not supported", genFlags.currency)
	}
	if genFlags.boardQuantity < 1 {
		return fmt.Errorf("cannot have board quantity less than 1")
	}

	policy, err := bom.NewGroupPolicy(genFlags.groupBy, groupPreset, genFlags.appendGroups)
	if err != nil {
		return err
	}
	columns, err := bom.ResolveColumns(genFlags.columns, columnsPreset, genFlags.appendColumns)
	if err != nil {
		return err
	}

	input := args[0]
	outputFile := fmt.Sprintf("otbom-%s.csv", time.Now().Format("150405020106"))
	if len(args) > 1 {
		outputFile = args[1]
	}
	format, err := output.FromExtension(outputFile)
	if err != nil {
		return err
	}

	// Open the output first so an unwritable path fails before any
	// network work.
	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("can't open output file %s for writing: %w", outputFile, err)
	}
	defer out.Close()

	log.Infof("Reading schematic from '%s'...", input)
	doc, err := parseInput(input)
	if err != nil {
		return err
	}

	filter := netlist.Filter{
		ExcludeBOMFlagged:   !genFlags.keepExcludeBOM,
		ExcludeBoardFlagged: !genFlags.keepExcludeBoard,
	}
	log.Infof("Grouping components by: '%s'.", policy)
	fitted, dnp := bom.Partitions(doc, filter, policy.Predicate())
	log.Infof("Received %d components from the schematic, %d fitted groups, %d DNP groups.",
		len(doc.Components), fitted.GroupCount(), dnp.GroupCount())

	ignoreMPNs := append(pricing.DefaultIgnoreMPNs(), splitList(genFlags.ignoreMPNs)...)
	if genFlags.removeIgnoreMPNParts {
		fitted.RemoveIgnoredMPNs(ignoreMPNs)
		dnp.RemoveIgnoredMPNs(ignoreMPNs)
	}

	noPricing := genFlags.noPricing
	downloadDatasheets := genFlags.downloadDatasheets
	if !noPricing && !pricing.HasInternet(connectivityProbe, 5*time.Second) {
		noPricing = true
		downloadDatasheets = false
		log.Info("Detected no internet; pricing and datasheet downloads are unavailable.")
	}

	var cfg *config.Config
	if !noPricing {
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if !cfg.HasAnySupplier() {
			noPricing = true
			log.Info("No supplier API credentials found in config.yaml; continuing without the pricing integration.")
		}
	}

	primaryEmpty, secondaryEmpty := returnEmpty(noPricing, genFlags.primaryOnly)

	queryCache := cache.New(cacheDir(cfg))
	primaryFitted, primaryDNP, err := enrichSupplier(genFlags.primarySupplier, primaryEmpty, fitted, dnp, cfg, queryCache, ignoreMPNs, log)
	if err != nil {
		return err
	}
	secondaryFitted, secondaryDNP, err := enrichSupplier(genFlags.secondarySupplier, secondaryEmpty, fitted, dnp, cfg, queryCache, ignoreMPNs, log)
	if err != nil {
		return err
	}

	fileData := bom.MergeFileData(primaryFitted, secondaryFitted)
	dnpData := bom.MergeFileData(primaryDNP, secondaryDNP)

	log.Infof("Columns for the BOM will be: %s.", strings.Join(columns, ","))
	bomDoc := &output.Document{
		Columns: columns,
		Rows:    bom.Rows(columns, fitted.Groups, fileData, genFlags.boardQuantity),
		DNPRows: bom.Rows(columns, dnp.Groups, dnpData, genFlags.boardQuantity),
		Headers: !genFlags.noHeaders,
	}
	if genFlags.sumFlag {
		bomDoc.Sum = formatSum(fileData, dnpData)
	}
	if genFlags.info {
		bomDoc.Info = &output.GeneralInfo{
			BoardQuantity:  genFlags.boardQuantity,
			Source:         doc.Design.Source,
			ComponentCount: len(doc.Components),
			Date:           doc.Design.Date,
			Generator:      "otbom v" + Version,
			Link:           "https://github.com/OpenTraceLab/OpenTraceBOM",
		}
	}

	if err := output.Write(out, format, bomDoc); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}
	log.Infof("Wrote results to '%s'.", outputFile)

	if downloadDatasheets {
		log.Info("Downloading datasheets...")
		d := datasheet.New(filepath.Join(".", datasheet.DefaultDir), log)
		if err := d.DownloadAll(fitted.Groups); err != nil {
			log.Errorf("%v", err)
		}
	}

	log.Info("Finished.")
	return nil
}

// resolvePresets expands --preset into the column and group presets unless
// the specific flags override it.
func resolvePresets() (columnsPreset, groupPreset string, err error) {
	columnsPreset, groupPreset, ok := bom.ResolvePreset(genFlags.preset)
	if !ok {
		return "", "", fmt.Errorf("preset '%s' not supported", genFlags.preset)
	}
	if genFlags.columnsPreset != "" {
		columnsPreset = genFlags.columnsPreset
	}
	if genFlags.groupPreset != "" {
		groupPreset = genFlags.groupPreset
	}
	return columnsPreset, groupPreset, nil
}

// parseInput dispatches on the input extension: the XML netlist from
// KiCad's BOM dialog, or the schematic file itself.
func parseInput(input string) (*netlist.Document, error) {
	switch strings.ToLower(filepath.Ext(input)) {
	case ".xml":
		return netlist.ParseFile(input)
	case ".kicad_sch":
		return schematic.ParseFile(input)
	}
	return nil, fmt.Errorf("input '%s' must be an XML netlist (.xml) or a KiCad schematic (.kicad_sch)", input)
}

// returnEmpty decides, per supplier, whether to skip querying and use
// blank enrichment arrays instead.
func returnEmpty(noPricing, primaryOnly bool) (primary, secondary bool) {
	if noPricing {
		return true, true
	}
	if primaryOnly {
		return false, true
	}
	return false, false
}

// enrichSupplier queries one supplier for both partitions and extracts the
// enrichment arrays aligned to the netlist grouping.
func enrichSupplier(supplier string, empty bool, fitted, dnp *bom.Collection, cfg *config.Config, queryCache *cache.Cache, ignoreMPNs []string, log *zap.SugaredLogger) (*bom.Enrichment, *bom.Enrichment, error) {
	if empty {
		return bom.EmptyEnrichment(fitted.GroupCount()), bom.EmptyEnrichment(dnp.GroupCount()), nil
	}

	client := clientFor(supplier, cfg, queryCache, log)
	if client == nil {
		log.Warnf("No API credentials for %s; skipping it.", pricing.DisplayName(supplier))
		return bom.EmptyEnrichment(fitted.GroupCount()), bom.EmptyEnrichment(dnp.GroupCount()), nil
	}

	var enrichments [2]*bom.Enrichment
	found := 0
	for i, collection := range []*bom.Collection{fitted, dnp} {
		groups := collection.PartGroups(ignoreMPNs)
		if err := client.QueryPartGroups(groups, strings.ToUpper(genFlags.currency)); err != nil {
			if errors.Is(err, pricing.ErrBadCredentials) {
				return nil, nil, fmt.Errorf("possible issue with your %s API keys in config.yaml: %w",
					pricing.DisplayName(supplier), err)
			}
			return nil, nil, err
		}
		for _, g := range groups {
			if len(g.Distributors) > 0 {
				found++
			}
		}
		aligned := bom.AlignPartGroups(collection.RefGroups, groups, log)
		enrichments[i] = bom.Enrich(strings.ToLower(supplier), aligned, genFlags.currency, genFlags.boardQuantity)
	}
	log.Infof("Searched %s, found %d valid parts.", pricing.DisplayName(supplier), found)
	return enrichments[0], enrichments[1], nil
}

func clientFor(supplier string, cfg *config.Config, queryCache *cache.Cache, log *zap.SugaredLogger) pricing.Client {
	switch strings.ToLower(supplier) {
	case pricing.SupplierMouser:
		if cfg.HasMouser() {
			return mouser.New(cfg.MouserKey, queryCache, log)
		}
	case pricing.SupplierDigiKey:
		if cfg.HasDigiKey() {
			return digikey.New(cfg.DigiKeyClientID, cfg.DigiKeyClientSecret, queryCache, log)
		}
	}
	return nil
}

func cacheDir(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.CacheDir
}

// formatSum renders the total price sum with the symbol of the first priced
// entry; a run with no priced parts falls back to the configured currency.
func formatSum(fitted, dnp *bom.FileData) string {
	symbol := pricing.CurrencySymbol(genFlags.currency)
	for _, s := range fitted.CurrencySymbol {
		if s != "" {
			symbol = s
			break
		}
	}
	sum := bom.TotalPriceSum(fitted.Price, dnp.Price, genFlags.boardQuantity)
	return symbol + sum.String()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func printTitle() {
	fmt.Println(`
   ____  __________  ____  __  ___
  / __ \/_  __/ __ )/ __ \/  |/  /
 / / / / / / / __  / / / / /|_/ /
/ /_/ / / / / /_/ / /_/ / /  / /
\____/ /_/ /_____/\____/_/  /_/

Use '-h'/'--help' for the full list of options. Use '-q'/'--quiet' to silence warnings.`)
}
