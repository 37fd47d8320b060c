package runtime

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"Addrforge/address"
	"Addrforge/constants"
	"Addrforge/envelope"
	"Addrforge/generator"
	"Addrforge/logger"
	"Addrforge/utils"
)

func decodeHex(label, s string) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s hex: %w", label, err)
	}
	return data, nil
}

// DeriveFromSeed derives the address for a hex-encoded private seed.
func DeriveFromSeed(ctx *AppContext, seedHex string) (*address.Derivation, error) {
	seed, err := decodeHex("seed", seedHex)
	if err != nil {
		return nil, err
	}
	pub, err := ctx.Backend.PublicKey(seed)
	if err != nil {
		return nil, err
	}
	return DeriveFromPublicKey(ctx, hex.EncodeToString(pub))
}

// DeriveFromPublicKey derives the address for a hex-encoded public key.
func DeriveFromPublicKey(ctx *AppContext, pubHex string) (*address.Derivation, error) {
	pub, err := decodeHex("public key", pubHex)
	if err != nil {
		return nil, err
	}
	d, err := ctx.Deriver.Derive(pub)
	if err != nil {
		return nil, err
	}
	LogDerivation(ctx, d)
	return d, nil
}

// LogDerivation prints every stage of a derivation.
func LogDerivation(ctx *AppContext, d *address.Derivation) {
	logger.LogHeaderStatus(ctx.LocalLog, constants.LogKey, "%s Derived address", constants.EmojiKey)
	logger.LogField(ctx.LocalLog, constants.LogKey, "Public key", d.PublicKeyHex())
	logger.LogField(ctx.LocalLog, constants.LogKey, "Fingerprint", d.FingerprintHex())
	logger.LogField(ctx.LocalLog, constants.LogAddr, "Payload", d.PayloadHex())
	logger.LogField(ctx.LocalLog, constants.LogAddr, "Address", d.Address)
}

// Decode parses addr and prints its parts. With an index open the address
// is also looked up.
func Decode(ctx *AppContext, addr string) (*address.Decoded, error) {
	dec, err := ctx.Deriver.Parse(addr)
	if err != nil {
		return nil, err
	}

	logger.LogHeaderStatus(ctx.LocalLog, constants.LogCheck, "%s Decoded address", constants.EmojiAddress)
	logger.LogField(ctx.LocalLog, constants.LogCheck, "Prefix", dec.Prefix)
	logger.LogField(ctx.LocalLog, constants.LogCheck, "Kind", dec.Kind().String())
	logger.LogField(ctx.LocalLog, constants.LogCheck, "Network", dec.Network().String())
	logger.LogField(ctx.LocalLog, constants.LogCheck, "Fingerprint", dec.Fingerprint().Hex())

	if ctx.Index != nil {
		has, err := ctx.Index.Has(addr)
		if err != nil {
			return dec, err
		}
		logger.LogField(ctx.LocalLog, constants.LogDB, "Indexed", fmt.Sprintf("%v", has))
	}
	return dec, nil
}

// WriteEnvelope writes the verification-key envelope for d to path. The
// key is taken to come from the configured backend.
func WriteEnvelope(ctx *AppContext, d *address.Derivation, path string) error {
	env, err := envelope.ForBackendKey(ctx.Backend.Name(), d.PublicKey[:])
	if err != nil {
		return err
	}
	data, err := env.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	logger.LogField(ctx.LocalLog, constants.LogDone, "Envelope", path)
	return nil
}

// Generate derives count addresses from fresh seeds, logging progress
// while it runs, and indexes them when an index is open.
func Generate(runCtx context.Context, ctx *AppContext, count int, cfg generator.Config) ([]*generator.Result, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = ctx.Config.Workers
	}
	gen, err := generator.New(ctx.Backend, ctx.Deriver, cfg)
	if err != nil {
		return nil, err
	}

	logger.LogHeaderStatus(ctx.LocalLog, constants.LogStart,
		"Generating %s addresses on %d workers",
		utils.FormatWithCommas(count), cfg.Workers)

	done := make(chan struct{})
	startTime := time.Now()
	ctx.Wg.Add(1)
	go func() {
		defer ctx.Wg.Done()
		ticker := time.NewTicker(constants.StatsLogInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				logGeneratorStats(ctx, gen.GetStats(), startTime, cfg.Workers)
				CheckMemoryUsage(ctx)
			}
		}
	}()

	results, err := gen.Generate(runCtx, count)
	close(done)
	logGeneratorStats(ctx, gen.GetStats(), startTime, cfg.Workers)

	for _, r := range results {
		logger.LogField(ctx.LocalLog, constants.LogAddr, "Address", r.Derivation.Address)
		logger.LogDebug(ctx.LocalLog, constants.LogDebug, "Seed %x", r.Seed)
	}

	if ctx.Index != nil && len(results) > 0 {
		ds := make([]*address.Derivation, len(results))
		for i, r := range results {
			ds[i] = r.Derivation
		}
		if ierr := ctx.Index.PutBatch(ds); ierr != nil {
			return results, fmt.Errorf("index results: %w", ierr)
		}
		logger.LogStatus(ctx.LocalLog, constants.LogDB,
			"Indexed %s addresses (%s total)",
			utils.FormatWithCommas(len(ds)),
			utils.FormatWithCommas(int(ctx.Index.Stats.Total())))
	}
	return results, err
}

func logGeneratorStats(ctx *AppContext, stats *generator.Stats, startTime time.Time, workers int) {
	derived := stats.Derived.Load()
	var rate float64
	if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
		rate = float64(derived) / elapsed
	}
	var memGB float64
	if m, err := utils.GetSystemMemory(); err == nil {
		memGB = m.TotalGB - m.AvailableGB
	}
	logger.LogGeneratorStats(ctx.LocalLog, derived, rate,
		stats.Matched.Load(), stats.Failed.Load(), memGB, workers)
}

// HandleExport writes the open index to path.
func HandleExport(ctx *AppContext, path string) (int, error) {
	logger.LogHeaderStatus(ctx.LocalLog, constants.LogDB, "Exporting addresses to %s", path)
	n, err := ctx.Index.Export(path)
	if err != nil {
		return n, fmt.Errorf("failed to export addresses: %w", err)
	}
	logger.LogStatus(ctx.LocalLog, constants.LogDone, "Exported %s addresses", utils.FormatWithCommas(n))
	return n, nil
}

// HandleImport loads path into the open index.
func HandleImport(ctx *AppContext, path string) (int, error) {
	logger.LogHeaderStatus(ctx.LocalLog, constants.LogDB, "Importing addresses from %s", path)
	imported, rejected, err := ctx.Index.Import(path)
	if err != nil {
		return imported, fmt.Errorf("failed to import addresses: %w", err)
	}
	if rejected > 0 {
		logger.LogStatus(ctx.LocalLog, constants.LogWarn, "Rejected %s lines", utils.FormatWithCommas(rejected))
	}
	logger.LogStatus(ctx.LocalLog, constants.LogDone, "Imported %s addresses", utils.FormatWithCommas(imported))
	return imported, nil
}
