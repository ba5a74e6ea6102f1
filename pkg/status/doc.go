/*
Package status owns the chartpack output tree and records what happened to
every chart.

	+-----------+        +-----------+
	|  Manager  | -----> |  results  |
	| (output)  |        | (per id)  |
	+-----+-----+        +-----------+
	      |
	+-----+-----+
	| Formatter |
	|  (UI/UX)  |
	+-----------+

🎯 Purpose:
- Resolves and prepares directories under the output root
- Writes files atomically (JSON, copies, resets)
- Tracks a ChartResult per metadata record
- Reports progress in a user-friendly format

⚡ Outcomes:
- processed: bundle, manifest and description written
- no-id / no-match: record passed over
- no-number: matched SVGs had no numeric suffix, bundle removed
- failed: an I/O error interrupted the record
*/
package status
