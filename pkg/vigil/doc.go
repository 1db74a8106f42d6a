// Package vigil provides a security log analysis pipeline: classification
// counts, isolation-forest anomaly detection over record lengths, and an
// optional natural-language summary, aggregated into one immutable report.
//
// Quick start:
//
//	v, err := vigil.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	report, err := v.AnalyzeFile(ctx, data, "auth.log")
//	if err != nil {
//	    log.Fatal(err) // undecodable input is the only fatal path
//	}
//	fmt.Println(report.Classification.ErrorCount, len(report.Anomalies))
//
// A Vigil instance holds the injected model capabilities. Create once,
// reuse across requests; Analyze keeps no state between invocations and is
// safe for concurrent use.
package vigil
