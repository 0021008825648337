package journal

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/liqstress/scenario"
)

var reportOrgFuncs = template.FuncMap{
	"pct":   func(x float64) float64 { return x * 100.0 },
	"short": shortID,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"outcomes": outcomes,
}

var reportOrg = template.Must(template.New("report").Funcs(reportOrgFuncs).Parse(ReportOrgTemplate))

// FormatReportOrg renders a run report as an Org-mode entry. Facts go in the
// PROPERTIES drawer; the KPI table has one row per outcome, baseline first.
func FormatReportOrg(rep scenario.Report) (string, error) {
	buf := new(bytes.Buffer)
	if err := reportOrg.Execute(buf, rep); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteReportOrg writes FormatReportOrg output to path.
func WriteReportOrg(path string, rep scenario.Report) error {
	s, err := FormatReportOrg(rep)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0o644)
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

const ReportOrgTemplate = `* LIQUIDITY STRESS: {{.AsOf.Format "2006-01-02"}} ({{short .RunID}})
:PROPERTIES:
:RUN_ID:       {{.RunID}}
:AS_OF:        {{.AsOf.Format "2006-01-02"}}
:HORIZON_DAYS: {{.HorizonDays}}
:HQLA:         {{printf "%.2f" .Baseline.KPIs.HQLA}}
:SCENARIOS:    {{len .Scenarios}}
:FAILED:       {{len .Failed}}
:CREATED:      [{{(orTime .GeneratedAt).Format "2006-01-02 Mon 15:04"}}]
:END:

** KPIs
| Scenario | Severity | LCR % | Peak 30d outflow | Survival days | Binding | Gap USD |
|----------+----------+-------+------------------+---------------+---------+---------|
{{- range outcomes .}}
| {{.Name}} | {{if .Severity}}{{.Severity}}{{else}}-{{end}} | {{if .Error}}error{{else if .KPIs.LCRUnbounded}}inf{{else}}{{printf "%.1f" (pct .KPIs.LCR)}}{{end}} | {{printf "%.2f" .KPIs.PeakOutflow30d}} | {{.KPIs.SurvivalDays}} | {{if .Error}}-{{else}}{{.KPIs.Gaps.BindingMetric}}{{end}} | {{.KPIs.Gaps.BindingGapUSD.StringFixed 2}} |
{{- end}}
{{range .Scenarios}}{{if .Effects}}
** {{.Name}}
- Deposit runoff:      {{.Effects.DepositRunoffUSD.StringFixed 2}}
- Wholesale non-roll:  {{.Effects.WholesaleNonRollUSD.StringFixed 2}}
- Collateral calls:    {{.Effects.CollateralCallsUSD.StringFixed 2}}
- Line drawdowns:      {{.Effects.DrawdownsUSD.StringFixed 2}}
- Reduced inflows:     {{.Effects.ReducedInflowUSD.StringFixed 2}}
- Impact net:          {{.Effects.ImpactNetUSD.StringFixed 2}}
- Delta LCR (pp):      {{printf "%.1f" .Effects.DeltaLCRPP}}
- Delta survival days: {{.Effects.DeltaSurvivalDays}}
{{else if .Error}}
** {{.Name}}
- Error: {{.Error}}
{{end}}{{end}}`

// FormatRunOrg renders a stored run and its KPI rows as an Org-mode block.
func FormatRunOrg(run RunRecord, kpis []ScenarioKPIRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Run: %s (%s)\n", run.AsOf.Format("2006-01-02"), shortID(run.RunID)))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":RUN_ID: %s\n", run.RunID))
	b.WriteString(fmt.Sprintf(":AS_OF: %s\n", run.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf(":GENERATED_AT: %s\n", run.GeneratedAt.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":HORIZON_DAYS: %d\n", run.HorizonDays))
	b.WriteString(fmt.Sprintf(":HQLA: %.2f\n", run.HQLA))
	b.WriteString(fmt.Sprintf(":SCENARIOS: %d\n", run.Scenarios))
	b.WriteString(fmt.Sprintf(":FAILED: %d\n", run.Failed))
	b.WriteString(":END:\n")

	if len(kpis) == 0 {
		return b.String()
	}
	b.WriteString("\n| Scenario | LCR % | Survival days | Binding | Gap USD |\n")
	b.WriteString("|----------+-------+---------------+---------+---------|\n")
	for _, k := range kpis {
		if k.Error != "" {
			b.WriteString(fmt.Sprintf("| %s | error | - | - | - |\n", k.Scenario))
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s |\n",
			k.Scenario, lcrPct(k.LCR, k.LCRUnbounded), k.SurvivalDays, k.BindingMetric, k.BindingGapUSD.StringFixed(2)))
	}
	return b.String()
}

// FormatRunsOrg renders runs separated by blank lines.
func FormatRunsOrg(runs []RunRecord) string {
	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatRunOrg(r, nil))
	}
	return b.String()
}

func lcrPct(x float64, unbounded bool) string {
	if unbounded {
		return "inf"
	}
	return fmt.Sprintf("%.1f", x*100)
}
