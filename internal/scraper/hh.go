package scraper

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/fr4nk3nst1ner/salarystats/internal/client"
	"github.com/fr4nk3nst1ner/salarystats/internal/logger"
	"github.com/fr4nk3nst1ner/salarystats/internal/ui"
)

const (
	// HHVacanciesURL is the vacancy search endpoint of hh.ru
	HHVacanciesURL = "https://api.hh.ru/vacancies"

	hhPerPage        = 100
	hhPagesPerWindow = 20
	HHWindows        = 24
	hhSpecialization = "1"
	hhTimeLayout     = "2006-01-02T15:04:05"
)

// HHHeader is the column layout of a downloaded export
var HHHeader = []string{"name", "salary_from", "salary_to", "salary_currency", "area_name", "published_at"}

// HHResponse is one page of the vacancy search
type HHResponse struct {
	Items []HHVacancy `json:"items"`
	Found int         `json:"found"`
	Pages int         `json:"pages"`
	Page  int         `json:"page"`
}

// HHVacancy is a vacancy as returned by the search
type HHVacancy struct {
	Name   string    `json:"name"`
	Salary *HHSalary `json:"salary"`
	Area   struct {
		Name string `json:"name"`
	} `json:"area"`
	PublishedAt string `json:"published_at"`
}

// HHSalary is the salary block of a vacancy; each bound may be null
type HHSalary struct {
	From     *json.Number `json:"from"`
	To       *json.Number `json:"to"`
	Currency string       `json:"currency"`
}

// Row renders a vacancy in HHHeader order. A missing salary gives blank cells.
func (v HHVacancy) Row() []string {
	var from, to, code string
	if v.Salary != nil {
		if v.Salary.From != nil {
			from = v.Salary.From.String()
		}
		if v.Salary.To != nil {
			to = v.Salary.To.String()
		}
		code = v.Salary.Currency
	}
	return []string{v.Name, from, to, code, v.Area.Name, v.PublishedAt}
}

// HHDownloader collects one day of vacancies from hh.ru
type HHDownloader struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	progress   *ui.DownloadProgress
	log        *logger.Entry
}

// NewHHDownloader creates a downloader for baseURL (HHVacanciesURL when empty)
func NewHHDownloader(baseURL string, httpClient *http.Client, requestsPerSecond float64, progress *ui.DownloadProgress) *HHDownloader {
	if baseURL == "" {
		baseURL = HHVacanciesURL
	}
	if httpClient == nil {
		httpClient = client.CreateHTTPClient()
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &HHDownloader{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		progress:   progress,
		log:        logger.GetLogger().WithComponent("hh"),
	}
}

// PageURL returns the search URL of one page in the window [from, to)
func (d *HHDownloader) PageURL(from, to time.Time, page int) string {
	q := url.Values{}
	q.Set("specialization", hhSpecialization)
	q.Set("per_page", strconv.Itoa(hhPerPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("date_from", from.Format(hhTimeLayout))
	q.Set("date_to", to.Format(hhTimeLayout))
	return d.baseURL + "?" + q.Encode()
}

// Download walks the 24 hourly windows of day, up to 20 pages each, and
// returns the rows in HHHeader order.
func (d *HHDownloader) Download(ctx context.Context, day time.Time) ([][]string, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var rows [][]string

	for w := 0; w < HHWindows; w++ {
		from := start.Add(time.Duration(w) * time.Hour)
		to := from.Add(time.Hour)

		windowRows, err := d.downloadWindow(ctx, from, to)
		if err != nil {
			return nil, err
		}
		rows = append(rows, windowRows...)
		d.progress.WindowDone()

		d.log.WithFields(logger.Fields{
			"window_from": from.Format(hhTimeLayout),
			"vacancies":   len(windowRows),
		}).Debug("window downloaded")
	}
	return rows, nil
}

func (d *HHDownloader) downloadWindow(ctx context.Context, from, to time.Time) ([][]string, error) {
	var rows [][]string
	for page := 0; page < hhPagesPerWindow; page++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := client.Get(ctx, d.httpClient, d.PageURL(from, to, page), client.GetHeaders(client.AcceptJSON))
		if err != nil {
			return nil, err
		}

		var resp HHResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse vacancies page %d: %w", page, err)
		}
		d.progress.PageDone()

		for _, v := range resp.Items {
			rows = append(rows, v.Row())
		}
		if page >= resp.Pages-1 {
			break
		}
	}
	return rows, nil
}

// WriteCSV writes the header and rows of a download
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(HHHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write vacancies: %w", err)
	}
	return nil
}
