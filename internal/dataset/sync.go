package dataset

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ptbr-tools/sampler-cli/internal/fetcher"
	"github.com/ptbr-tools/sampler-cli/internal/location"
)

// Report summarizes what a sync changed.
type Report struct {
	Municipalities  int
	StatesUpdated   int
	CitiesMatched   int
	CitiesUnmatched []string
	EstimatesFresh  bool
}

// Syncer merges fresh IBGE data into a location dataset.
type Syncer struct {
	http fetcher.Fetcher
	ftp  *fetcher.FTPFetcher
}

// NewSyncer wires the fetchers. ftp may be nil when the manifest only
// uses HTTP sources.
func NewSyncer(httpFetcher fetcher.Fetcher, ftpFetcher *fetcher.FTPFetcher) *Syncer {
	return &Syncer{http: httpFetcher, ftp: ftpFetcher}
}

// ibgeMunicipio is one element of the localities API response.
type ibgeMunicipio struct {
	ID           int    `json:"id"`
	Nome         string `json:"nome"`
	Microrregiao struct {
		Mesorregiao struct {
			UF struct {
				Sigla string `json:"sigla"`
			} `json:"UF"`
		} `json:"mesorregiao"`
	} `json:"microrregiao"`
}

// Sync validates the dataset's cities against the municipality list
// and refreshes the sampling weights from the population estimates.
// The dataset is modified in place; st records source ETags.
func (s *Syncer) Sync(ctx context.Context, m Manifest, ds *location.Dataset, st *SyncState) (*Report, error) {
	report := &Report{}

	known, count, err := s.fetchMunicipalities(ctx, m.Sources.Municipalities)
	if err != nil {
		return nil, err
	}
	report.Municipalities = count

	for key, city := range ds.Cities {
		if _, ok := known[location.FoldName(city.Name)+"|"+city.UF]; !ok {
			report.CitiesUnmatched = append(report.CitiesUnmatched, key)
		}
	}

	cityPop, statePop, fresh, err := s.fetchEstimates(ctx, m, st)
	if err != nil {
		return nil, err
	}
	report.EstimatesFresh = fresh
	if !fresh {
		zap.L().Info("population estimates unchanged, keeping current weights")
		return report, nil
	}

	var national float64
	for _, pop := range statePop {
		national += pop
	}
	if national <= 0 {
		return nil, eris.New("dataset: estimates carry no population totals")
	}

	for name, state := range ds.States {
		total, ok := statePop[state.Abbr]
		if !ok {
			continue
		}
		state.PopulationPct = total * 100 / national
		ds.States[name] = state
		report.StatesUpdated++
	}

	for key, city := range ds.Cities {
		pop, ok := cityPop[location.FoldName(city.Name)+"|"+city.UF]
		if !ok {
			continue
		}
		total := statePop[city.UF]
		if total <= 0 {
			continue
		}
		city.PopulationPct = pop * 100 / total
		ds.Cities[key] = city
		report.CitiesMatched++
	}

	zap.L().Info("dataset synced",
		zap.Int("municipalities", report.Municipalities),
		zap.Int("states_updated", report.StatesUpdated),
		zap.Int("cities_matched", report.CitiesMatched),
		zap.Int("cities_unmatched", len(report.CitiesUnmatched)),
	)

	return report, nil
}

// fetchMunicipalities streams the localities API and indexes the
// result by folded name and UF.
func (s *Syncer) fetchMunicipalities(ctx context.Context, url string) (map[string]int, int, error) {
	body, err := s.http.Download(ctx, url)
	if err != nil {
		return nil, 0, eris.Wrap(err, "dataset: download municipalities")
	}
	defer body.Close()

	known := make(map[string]int)
	count := 0

	outCh, errCh := fetcher.DecodeJSONArray[ibgeMunicipio](ctx, body)
	for mun := range outCh {
		known[location.FoldName(mun.Nome)+"|"+mun.Microrregiao.Mesorregiao.UF.Sigla] = mun.ID
		count++
	}
	if err := <-errCh; err != nil {
		return nil, 0, eris.Wrap(err, "dataset: parse municipalities")
	}
	return known, count, nil
}

// fetchEstimates downloads the population spreadsheet and returns
// per-city and per-state population, keyed like fetchMunicipalities.
// fresh is false when the HTTP source reports the file unchanged.
func (s *Syncer) fetchEstimates(ctx context.Context, m Manifest, st *SyncState) (map[string]float64, map[string]float64, bool, error) {
	url := m.Sources.Estimates

	if strings.HasPrefix(url, "ftp://") {
		if s.ftp == nil {
			return nil, nil, false, eris.New("dataset: manifest uses ftp but no ftp fetcher is wired")
		}
		// A directory URL means "the newest spreadsheet published
		// there"; IBGE date-stamps the filenames.
		if strings.HasSuffix(url, "/") {
			resolved, err := s.newestEstimatesURL(ctx, url)
			if err != nil {
				return nil, nil, false, err
			}
			url = resolved
		}
	}
	if strings.HasSuffix(strings.ToLower(url), ".xls") {
		return nil, nil, false, eris.Errorf("dataset: %s is a legacy OLE2 workbook, use the .xlsx edition IBGE publishes alongside", url)
	}

	dir, err := os.MkdirTemp("", "estimates-")
	if err != nil {
		return nil, nil, false, eris.Wrap(err, "dataset: temp dir")
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, filepath.Base(url))

	switch {
	case strings.HasPrefix(url, "ftp://"):
		if _, err := s.ftp.DownloadToFile(ctx, url, path); err != nil {
			return nil, nil, false, err
		}
	default:
		body, etag, changed, err := s.http.DownloadIfChanged(ctx, url, st.ETags[url])
		if err != nil {
			return nil, nil, false, err
		}
		if !changed {
			return nil, nil, false, nil
		}
		defer body.Close()
		if err := writeAll(path, body); err != nil {
			return nil, nil, false, err
		}
		st.ETags[url] = etag
	}

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		match := m.Sources.EstimatesZipEntry
		if match == "" {
			match = ".xlsx"
		}
		inner, err := fetcher.ExtractZIPMatch(path, match, dir)
		if err != nil {
			return nil, nil, false, err
		}
		path = inner
	}

	rows, err := s.readEstimates(ctx, path, m)
	if err != nil {
		return nil, nil, false, err
	}

	// Estimates rows: UF, state code, municipality code, name, population.
	cityPop := make(map[string]float64)
	statePop := make(map[string]float64)
	for _, row := range rows {
		if len(row) < 5 || row[0] == "" {
			continue
		}
		pop, err := parsePopulation(row[4])
		if err != nil {
			continue
		}
		uf := strings.TrimSpace(row[0])
		cityPop[location.FoldName(row[3])+"|"+uf] = pop
		statePop[uf] += pop
	}
	if len(cityPop) == 0 {
		return nil, nil, false, eris.Errorf("dataset: no population rows on sheet %q", m.Sources.EstimatesSheet)
	}

	return cityPop, statePop, true, nil
}

// readEstimates parses the downloaded file by extension. IBGE ships
// the estimates as an .xlsx workbook and as semicolon-separated CSV.
func (s *Syncer) readEstimates(ctx context.Context, path string, m Manifest) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: open estimates")
		}
		defer f.Close()
		return fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{
			Delimiter: ';',
			SkipRows:  m.Sources.EstimatesSkipRows,
			TrimSpace: true,
		})
	case ".xlsx":
		return fetcher.ReadXLSX(path, fetcher.XLSXOptions{
			SheetName: m.Sources.EstimatesSheet,
			SkipRows:  m.Sources.EstimatesSkipRows,
		})
	case ".xls":
		return nil, eris.Errorf("dataset: %s is a legacy OLE2 workbook, use the .xlsx edition", filepath.Base(path))
	default:
		return nil, eris.Errorf("dataset: unsupported estimates format %q", filepath.Ext(path))
	}
}

// newestEstimatesURL lists an ftp directory and picks the newest
// spreadsheet in it.
func (s *Syncer) newestEstimatesURL(ctx context.Context, dirURL string) (string, error) {
	names, err := s.ftp.List(ctx, dirURL)
	if err != nil {
		return "", err
	}
	best := newestSpreadsheet(names)
	if best == "" {
		return "", eris.Errorf("dataset: no spreadsheet under %s", dirURL)
	}
	return dirURL + best, nil
}

// newestSpreadsheet picks the lexically greatest parseable file name;
// the date-stamped IBGE names make lexical order chronological.
func newestSpreadsheet(names []string) string {
	best := ""
	for _, n := range names {
		l := strings.ToLower(n)
		if !strings.HasSuffix(l, ".xlsx") && !strings.HasSuffix(l, ".zip") && !strings.HasSuffix(l, ".csv") {
			continue
		}
		if n > best {
			best = n
		}
	}
	return best
}

// parsePopulation handles the spreadsheet's formatting: thousands
// dots and footnote markers like "4.607(1)".
func parsePopulation(s string) (float64, error) {
	if idx := strings.IndexByte(s, '('); idx >= 0 {
		s = s[:idx]
	}
	s = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return 0, eris.New("dataset: empty population cell")
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "dataset: parse population %q", s)
	}
	return n, nil
}

func writeAll(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "dataset: create file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return eris.Wrap(err, "dataset: write file")
	}
	return nil
}

// WriteOutput saves the merged dataset to the manifest's output path,
// creating parent directories as needed.
func WriteOutput(m Manifest, ds *location.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(m.Output), 0o755); err != nil {
		return eris.Wrap(err, "dataset: create output directory")
	}
	return location.SaveDataset(m.Output, ds)
}
