/*
Package operation drives a chartpack run from spreadsheet to bundles.

	+-------------+     +-------------+
	|    sheet    |     |   archive   |
	|  (records)  |     |   (svgs)    |
	+------+------+     +------+------+
	       |                   |
	       +---------+---------+
	                 |
	          +------+------+
	          |  Pipeline   |
	          | (per chart) |
	          +------+------+
	                 |
	     +-----------+-----------+
	     |           |           |
	+----+----+ +----+----+ +----+----+
	|  match  | |manifest | | status  |
	| (copy)  | | (meta)  | | (track) |
	+---------+ +---------+ +---------+

🔄 Flow:
1. Prepare the output, assets and metas directories
2. Read the metadata sheet and extract the archive (fatal on error)
3. For each record: find variants, reset the bundle directory, copy,
   write meta.json and the Markdown description
4. Merge the descriptions into metas.json

Record failures are tracked and the run continues. Bundles are rebuilt from
scratch, so files left by earlier runs never survive.

🔍 Example:

	p, err := operation.New(operation.Options{ExcelPath: "charts.xlsx", ZipPath: "svgs.zip"})
	if err != nil {
		return err
	}
	report, err := p.Execute(ctx)
*/
package operation
