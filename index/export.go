package index

import (
	"bufio"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"Addrforge/address"
	"Addrforge/constants"
	"Addrforge/logger"
	"Addrforge/utils"
)

// Export writes every stored address as "address,payloadhex" lines to a
// gzip file and returns the number written.
func (ix *Index) Export(filename string) (int, error) {
	outFile, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer outFile.Close()

	gzWriter := gzip.NewWriter(outFile)
	writer := bufio.NewWriter(gzWriter)

	iter := ix.DB.NewIterator(prefixRange(), nil)
	defer iter.Release()

	count := 0
	for iter.Next() {
		addr := string(iter.Key()[len(constants.IndexKeyPrefix):])
		if _, err := fmt.Fprintf(writer, "%s,%s\n", addr, hex.EncodeToString(iter.Value())); err != nil {
			return count, fmt.Errorf("write %s: %w", filename, err)
		}
		count++
	}
	if err := iter.Error(); err != nil {
		return count, err
	}

	if err := writer.Flush(); err != nil {
		return count, err
	}
	if err := gzWriter.Close(); err != nil {
		return count, err
	}
	return count, outFile.Close()
}

// Import reads a file written by Export. Lines whose payload does not
// match their address are skipped and counted as rejected. Only lines in
// batches that reached the database count as imported.
func (ix *Index) Import(filename string) (imported int, rejected int, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return 0, 0, err
	}
	defer gzReader.Close()

	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	scanner := bufio.NewScanner(gzReader)
	pb := newPendingBatch()
	queued := 0
	startTime := time.Now()

	flush := func() error {
		if err := ix.flush(pb); err != nil {
			return err
		}
		imported += queued
		queued = 0
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		dec, ok := parseLine(line)
		if !ok {
			logger.LogDebug(ix.Logger, constants.LogDB, "Rejected line: %s", line)
			rejected++
			continue
		}

		if err := ix.queue(pb, line[:strings.IndexByte(line, ',')], dec.Payload); err != nil {
			return imported, rejected, err
		}
		queued++

		if pb.batch.Len() >= constants.IndexBatchSize {
			if err := flush(); err != nil {
				return imported, rejected, err
			}
			ix.logProgress(imported, startTime)
		}
	}
	if err := scanner.Err(); err != nil {
		return imported, rejected, err
	}

	if err := flush(); err != nil {
		return imported, rejected, err
	}
	return imported, rejected, nil
}

func parseLine(line string) (*address.Decoded, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return nil, false
	}
	dec, err := address.Parse(parts[0])
	if err != nil {
		return nil, false
	}
	if !strings.EqualFold(parts[1], dec.Payload.Hex()) {
		return nil, false
	}
	return dec, true
}

func (ix *Index) logProgress(written int, startTime time.Time) {
	var memGB float64
	if m, err := utils.GetSystemMemory(); err == nil {
		memGB = m.TotalGB - m.AvailableGB
	}
	logger.LogIndexProgress(ix.Logger, written, startTime,
		ix.Stats.Total(), memGB, utils.GetFreeDiskSpace(ix.Path))
}
