// Benchmark tool for testing Kestrel against labeled certificate data.
//
// Usage:
//   go run cmd/benchmark/main.go -csv /path/to/certificates.csv -url http://localhost:8080
//
// This tool:
//   1. Reads extracted certificate rows (with compliant/non-compliant labels)
//   2. Registers each vendor and policy, then requests a compliance evaluation
//   3. Compares Kestrel's verdict (pass/fail) with the actual labels
//   4. Calculates precision, recall, F1-score, and confusion matrix
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// CertificateRow represents one labeled certificate extraction from the CSV.
// Expected columns: vendor_id, vendor_name, coverage_type, expiration_date,
// each_occurrence, aggregate, additional_insured, is_compliant.
type CertificateRow struct {
	VendorID          string
	VendorName        string
	CoverageType      string
	ExpirationDate    string
	EachOccurrence    float64
	Aggregate         float64
	AdditionalInsured bool
	IsCompliant       bool
}

// VendorRequest is the Kestrel vendor creation format.
type VendorRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PolicyRequest is the Kestrel policy creation format.
type PolicyRequest struct {
	CoverageType   string         `json:"coverageType"`
	ExpirationDate string         `json:"expirationDate"`
	Fields         map[string]any `json:"fields,omitempty"`
}

// EvaluateResponse is the Kestrel compliance evaluation response format.
type EvaluateResponse struct {
	VendorID   string `json:"vendorId"`
	Evaluation struct {
		GlobalScore   int   `json:"globalScore"`
		FailingGroups []any `json:"failingGroups"`
	} `json:"evaluation"`
}

// Metrics tracks benchmark results.
type Metrics struct {
	TruePositives  int64 // Non-compliant flagged as failing
	FalsePositives int64 // Compliant flagged as failing
	TrueNegatives  int64 // Compliant passed
	FalseNegatives int64 // Non-compliant passed (missed gap!)

	TotalProcessed    int64
	TotalNonCompliant int64
	TotalCompliant    int64
	TotalErrors       int64

	ProcessingTimeMs int64
}

func main() {
	// Parse flags
	csvPath := flag.String("csv", "", "Path to labeled certificate CSV file")
	baseURL := flag.String("url", "http://localhost:8080", "Kestrel base URL")
	orgID := flag.String("org", "benchmark-test", "Org ID for requests")
	limit := flag.Int("limit", 10000, "Maximum certificates to process (0 = all)")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	verbose := flag.Bool("verbose", false, "Print each certificate result")
	flag.Parse()

	if *csvPath == "" {
		fmt.Println("Usage: benchmark -csv /path/to/certificates.csv [-url http://localhost:8080]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║        KESTREL BENCHMARK - Certificate Compliance             ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nCSV File:    %s\n", *csvPath)
	fmt.Printf("Kestrel URL: %s\n", *baseURL)
	fmt.Printf("Org ID:      %s\n", *orgID)
	fmt.Printf("Workers:     %d\n", *workers)
	fmt.Printf("Limit:       %d\n", *limit)
	fmt.Println()

	// Check Kestrel is running
	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: Kestrel not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure Kestrel is running:")
		fmt.Println("  cd kestrel && go run cmd/kestrel/main.go")
		os.Exit(1)
	}
	fmt.Println("✓ Kestrel is healthy")

	// Read certificate data
	fmt.Printf("\nReading certificate data from %s...\n", *csvPath)
	certs, err := readCertificateCSV(*csvPath, *limit)
	if err != nil {
		fmt.Printf("ERROR: Failed to read CSV: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Loaded %d certificates\n", len(certs))

	// Count labels
	nonCompliant := 0
	for _, c := range certs {
		if !c.IsCompliant {
			nonCompliant++
		}
	}
	fmt.Printf("  - Non-compliant: %d (%.2f%%)\n", nonCompliant, 100*float64(nonCompliant)/float64(len(certs)))
	fmt.Printf("  - Compliant:     %d (%.2f%%)\n", len(certs)-nonCompliant, 100*float64(len(certs)-nonCompliant)/float64(len(certs)))

	// Run benchmark
	fmt.Printf("\nRunning benchmark with %d workers...\n", *workers)
	startTime := time.Now()
	metrics := runBenchmark(certs, *baseURL, *orgID, *workers, *verbose)
	duration := time.Since(startTime)

	// Print results
	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func readCertificateCSV(path string, limit int) ([]CertificateRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Map column indices
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(col)] = i
	}

	var certs []CertificateRow

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // Skip malformed rows
		}

		eachOcc, _ := strconv.ParseFloat(record[colIndex["each_occurrence"]], 64)
		aggregate, _ := strconv.ParseFloat(record[colIndex["aggregate"]], 64)

		cert := CertificateRow{
			VendorID:          record[colIndex["vendor_id"]],
			VendorName:        record[colIndex["vendor_name"]],
			CoverageType:      record[colIndex["coverage_type"]],
			ExpirationDate:    record[colIndex["expiration_date"]],
			EachOccurrence:    eachOcc,
			Aggregate:         aggregate,
			AdditionalInsured: record[colIndex["additional_insured"]] == "1",
			IsCompliant:       record[colIndex["is_compliant"]] == "1",
		}

		certs = append(certs, cert)

		if limit > 0 && len(certs) >= limit {
			break
		}
	}

	return certs, nil
}

func runBenchmark(certs []CertificateRow, baseURL, orgID string, numWorkers int, verbose bool) *Metrics {
	metrics := &Metrics{}

	// Create work channel
	work := make(chan CertificateRow, 100)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 10 * time.Second}

			for cert := range work {
				start := time.Now()
				result, err := evaluateCertificate(client, baseURL, orgID, cert)
				elapsed := time.Since(start).Milliseconds()

				atomic.AddInt64(&metrics.ProcessingTimeMs, elapsed)
				atomic.AddInt64(&metrics.TotalProcessed, 1)

				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("ERROR: %s -> %v\n", cert.VendorID, err)
					}
					continue
				}

				// Track actual labels
				if cert.IsCompliant {
					atomic.AddInt64(&metrics.TotalCompliant, 1)
				} else {
					atomic.AddInt64(&metrics.TotalNonCompliant, 1)
				}

				// Calculate confusion matrix: "positive" = engine flags a gap
				predicted := len(result.Evaluation.FailingGroups) > 0
				actual := !cert.IsCompliant

				if predicted && actual {
					atomic.AddInt64(&metrics.TruePositives, 1)
				} else if predicted && !actual {
					atomic.AddInt64(&metrics.FalsePositives, 1)
				} else if !predicted && !actual {
					atomic.AddInt64(&metrics.TrueNegatives, 1)
				} else { // !predicted && actual
					atomic.AddInt64(&metrics.FalseNegatives, 1)
				}

				if verbose {
					status := "✓"
					if (predicted && !actual) || (!predicted && actual) {
						status = "✗"
					}
					name := cert.VendorName
					if len(name) > 14 {
						name = name[:14]
					}
					verdict := "pass"
					if predicted {
						verdict = "fail"
					}
					fmt.Printf("%s %-14s | Coverage: %-18s | Limit: $%12.2f | Compliant: %-5v | Kestrel: %-4s (%d)\n",
						status,
						name,
						cert.CoverageType,
						cert.EachOccurrence,
						cert.IsCompliant,
						verdict,
						result.Evaluation.GlobalScore,
					)
				}
			}
		}()
	}

	// Send work
	for _, cert := range certs {
		work <- cert
	}
	close(work)

	// Wait for completion
	wg.Wait()

	return metrics
}

func evaluateCertificate(client *http.Client, baseURL, orgID string, cert CertificateRow) (*EvaluateResponse, error) {
	// Register the vendor (idempotent upsert)
	vendor := VendorRequest{
		ID:   cert.VendorID,
		Name: cert.VendorName,
	}
	if err := postJSON(client, baseURL+"/vendors", orgID, vendor, nil); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}

	// Attach the extracted policy
	policy := PolicyRequest{
		CoverageType:   cert.CoverageType,
		ExpirationDate: cert.ExpirationDate,
		Fields: map[string]any{
			"limits": map[string]any{
				"each_occurrence": cert.EachOccurrence,
				"aggregate":       cert.Aggregate,
			},
			"additional_insured": cert.AdditionalInsured,
		},
	}
	if err := postJSON(client, baseURL+"/vendors/"+cert.VendorID+"/policies", orgID, policy, nil); err != nil {
		return nil, fmt.Errorf("create policy: %w", err)
	}

	// Evaluate compliance
	var result EvaluateResponse
	if err := postJSON(client, baseURL+"/vendors/"+cert.VendorID+"/compliance", orgID, nil, &result); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	return &result, nil
}

func postJSON(client *http.Client, url, orgID string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	httpReq, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Org-ID", orgID)

	resp, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println("\n╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      BENCHMARK RESULTS                        ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	fmt.Printf("\n📊 DATASET STATISTICS\n")
	fmt.Printf("   Total Processed:     %d\n", m.TotalProcessed)
	fmt.Printf("   Total Non-Compliant: %d\n", m.TotalNonCompliant)
	fmt.Printf("   Total Compliant:     %d\n", m.TotalCompliant)
	fmt.Printf("   Errors:              %d\n", m.TotalErrors)

	fmt.Printf("\n📈 CONFUSION MATRIX\n")
	fmt.Println("                        Predicted")
	fmt.Println("                    FAIL        PASS")
	fmt.Println("              ┌──────────┬──────────┐")
	fmt.Printf("   Actual NC  │ %8d │ %8d │  (TP, FN)\n", m.TruePositives, m.FalseNegatives)
	fmt.Println("              ├──────────┼──────────┤")
	fmt.Printf("           C  │ %8d │ %8d │  (FP, TN)\n", m.FalsePositives, m.TrueNegatives)
	fmt.Println("              └──────────┴──────────┘")

	// Calculate metrics
	precision := float64(0)
	if m.TruePositives+m.FalsePositives > 0 {
		precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}

	recall := float64(0)
	if m.TruePositives+m.FalseNegatives > 0 {
		recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}

	f1 := float64(0)
	if precision+recall > 0 {
		f1 = 2 * (precision * recall) / (precision + recall)
	}

	accuracy := float64(0)
	total := m.TruePositives + m.TrueNegatives + m.FalsePositives + m.FalseNegatives
	if total > 0 {
		accuracy = float64(m.TruePositives+m.TrueNegatives) / float64(total)
	}

	fmt.Printf("\n🎯 DETECTION METRICS\n")
	fmt.Printf("   Precision:  %.4f  (of failed verdicts, how many were real gaps)\n", precision)
	fmt.Printf("   Recall:     %.4f  (of real gaps, how many did we catch)\n", recall)
	fmt.Printf("   F1-Score:   %.4f  (harmonic mean of precision & recall)\n", f1)
	fmt.Printf("   Accuracy:   %.4f  (overall correct verdicts)\n", accuracy)

	// Detection rate analysis
	fmt.Printf("\n🔍 DETECTION ANALYSIS\n")
	if m.TotalNonCompliant > 0 {
		detectionRate := float64(m.TruePositives) / float64(m.TotalNonCompliant) * 100
		missRate := float64(m.FalseNegatives) / float64(m.TotalNonCompliant) * 100
		fmt.Printf("   Gaps Detected:     %d / %d (%.2f%%)\n", m.TruePositives, m.TotalNonCompliant, detectionRate)
		fmt.Printf("   Gaps Missed:       %d / %d (%.2f%%) ⚠️\n", m.FalseNegatives, m.TotalNonCompliant, missRate)
	}
	if m.TotalCompliant > 0 {
		falseAlarmRate := float64(m.FalsePositives) / float64(m.TotalCompliant) * 100
		fmt.Printf("   False Alarms:      %d / %d (%.2f%%)\n", m.FalsePositives, m.TotalCompliant, falseAlarmRate)
	}

	fmt.Printf("\n⏱️  PERFORMANCE\n")
	fmt.Printf("   Total Duration:   %v\n", duration.Round(time.Millisecond))
	if m.TotalProcessed > 0 {
		avgMs := float64(m.ProcessingTimeMs) / float64(m.TotalProcessed)
		tps := float64(m.TotalProcessed) / duration.Seconds()
		fmt.Printf("   Avg Latency:      %.2f ms\n", avgMs)
		fmt.Printf("   Throughput:       %.2f certs/sec\n", tps)
	}

	// Interpretation
	fmt.Printf("\n💡 INTERPRETATION\n")
	if recall >= 0.9 {
		fmt.Println("   ✅ Excellent recall - catching most coverage gaps")
	} else if recall >= 0.7 {
		fmt.Println("   ⚠️  Good recall - but missing some gaps")
	} else if recall >= 0.5 {
		fmt.Println("   ⚠️  Moderate recall - significant gaps being missed")
	} else {
		fmt.Println("   ❌ Poor recall - most coverage gaps are being missed!")
	}

	if precision >= 0.5 {
		fmt.Println("   ✅ Good precision - failed verdicts are meaningful")
	} else if precision >= 0.2 {
		fmt.Println("   ⚠️  Low precision - many false alarms")
	} else {
		fmt.Println("   ❌ Very low precision - mostly false alarms")
	}

	fmt.Println()
}
