// Command pricelist-import bulk-loads price list entries from gzip-compressed
// CSV files. Each line holds "item_code,unit_price_untaxed,unit_price,unit_tax"
// with either price column optionally empty. Files are streamed concurrently
// and the canonical net/gross/tax triple is computed before insertion.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/salekit/sale-api/internal/domain/catalog"
	"github.com/salekit/sale-api/internal/domain/pricelist"
	"github.com/salekit/sale-api/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
	rowBuffer     = 1024
)

// row is one parsed CSV line, priced and ready for insertion.
type row struct {
	itemCode string
	net      decimal.Decimal
	gross    decimal.Decimal
	tax      decimal.Decimal
}

func main() {
	var (
		databaseURL   string
		dataDir       string
		priceListCode string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.csv.gz price files")
	flag.StringVar(&priceListCode, "price-list", "DEFAULT", "code of the target price list")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, dataDir, priceListCode); err != nil {
		slog.Error("price list import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("price list import completed successfully")
}

func run(ctx context.Context, databaseURL, dataDir, priceListCode string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "glob data dir")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.csv.gz files found in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	priceListRepo := postgres.NewPriceListRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)

	pl, err := ensurePriceList(ctx, priceListRepo, priceListCode)
	if err != nil {
		return errors.Wrap(err, "ensure price list")
	}

	slog.Info("importing", slog.Int("files", len(files)), slog.String("price_list", pl.Code))

	imp := newImporter(priceListRepo, catalogRepo, pl)
	return imp.importFiles(ctx, files)
}

// ensurePriceList returns the target price list, creating it when missing.
func ensurePriceList(ctx context.Context, repo pricelist.Repository, code string) (*pricelist.PriceList, error) {
	pl, err := repo.GetListByCode(ctx, code)
	if err == nil {
		return pl, nil
	}
	if !errors.Is(err, pricelist.ErrNotFound) {
		return nil, err
	}
	return pricelist.NewService(repo).CreateList(ctx, code, code)
}

// importer drains parsed rows into a price list, deduplicating item codes.
type importer struct {
	svc     *pricelist.Service
	catalog catalog.Repository
	list    *pricelist.PriceList

	// seen speeds up duplicate detection; the database unique constraint
	// stays authoritative.
	seen    *bloom.BloomFilter
	itemIDs map[string]string
}

func newImporter(priceLists pricelist.Repository, items catalog.Repository, pl *pricelist.PriceList) *importer {
	return &importer{
		svc:     pricelist.NewService(priceLists),
		catalog: items,
		list:    pl,
		seen:    bloom.NewWithEstimates(bloomCapacity, bloomFPR),
		itemIDs: make(map[string]string),
	}
}

// importFiles streams all files concurrently into a single writer. Readers
// and the writer share one errgroup, so a failure on either side cancels the
// group context and unblocks the other: readers give up their channel sends
// on cancellation, and the writer sees the channel closed once the readers
// are done.
func (imp *importer) importFiles(ctx context.Context, files []string) error {
	rows := make(chan row, rowBuffer)

	g, ctx := errgroup.WithContext(ctx)

	readers, readerCtx := errgroup.WithContext(ctx)
	for _, f := range files {
		readers.Go(streamFile(readerCtx, f, rows))
	}
	g.Go(func() error {
		defer close(rows)
		return readers.Wait()
	})
	g.Go(func() error {
		return imp.writeRows(ctx, rows)
	})

	return g.Wait()
}

// streamFile parses one gzip CSV file and sends its rows to out.
func streamFile(ctx context.Context, path string, out chan<- row) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var count uint64
		scanner := bufio.NewScanner(gz)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}

			r, ok := parseLine(scanner.Text())
			if !ok {
				continue
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress", slog.String("file", path), slog.Uint64("rows", count))
			}

			select {
			case out <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("parsed file", slog.String("file", path), slog.Uint64("rows", count))
		return nil
	}
}

// parseLine parses "item_code,net,gross,tax". Empty price columns become
// zero, which the price calculator treats as unset.
func parseLine(line string) (row, bool) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 4 || fields[0] == "" {
		return row{}, false
	}

	r := row{itemCode: fields[0]}
	var err error
	if r.net, err = parseAmount(fields[1]); err != nil {
		return row{}, false
	}
	if r.gross, err = parseAmount(fields[2]); err != nil {
		return row{}, false
	}
	if r.tax, err = parseAmount(fields[3]); err != nil {
		return row{}, false
	}
	return r, true
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// writeRows drains the channel, resolves item codes to catalog items
// (creating missing ones), computes prices and inserts entries.
//
// The bloom filter is advisory only: a negative test proves the code is new,
// a positive test may be a false positive, so it never suppresses the
// insert. Duplicates are rejected by the unique constraint and counted.
func (imp *importer) writeRows(ctx context.Context, rows <-chan row) error {
	var written, skipped uint64
	for r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !imp.seen.TestString(r.itemCode) {
			imp.seen.AddString(r.itemCode)
		}

		itemID, err := imp.resolveItem(ctx, r.itemCode)
		if err != nil {
			return errors.Wrapf(err, "resolve item %s", r.itemCode)
		}

		_, err = imp.svc.CreateItem(ctx, pricelist.CreateItemRequest{
			PriceListID:      imp.list.ID,
			ItemID:           itemID,
			UnitPriceUntaxed: r.net,
			UnitPrice:        r.gross,
			UnitTax:          r.tax,
		})
		if err != nil {
			if errors.Is(err, pricelist.ErrDuplicateItem) {
				skipped++
				continue
			}
			return errors.Wrapf(err, "price item %s", r.itemCode)
		}

		written++
		if written%progressEvery == 0 {
			slog.Info("write progress", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
		}
	}

	slog.Info("write complete", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
	return nil
}

// resolveItem finds a catalog item by code, creating it when missing. A
// bloom miss means the code was never resolved, so the cache lookup and the
// repository round trip are skipped for definitely-new codes.
func (imp *importer) resolveItem(ctx context.Context, code string) (string, error) {
	if id, ok := imp.itemIDs[code]; ok {
		return id, nil
	}

	item, err := imp.catalog.GetByCode(ctx, code)
	if err == nil {
		imp.itemIDs[code] = item.ID
		return item.ID, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return "", err
	}

	created := catalog.Item{
		ID:   uuid.New().String(),
		Code: code,
		Name: code,
	}
	if err := imp.catalog.Create(ctx, &created); err != nil {
		return "", err
	}
	imp.itemIDs[code] = created.ID
	return created.ID, nil
}
