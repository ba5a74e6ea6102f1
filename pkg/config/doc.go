/*
Package config loads the optional chartpack configuration file.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Picks a parser by file extension
- Rejects unknown fields
- Fills defaults and validates values

Every field is optional; command line flags override what the file sets.

	output          = "dist"
	version         = "v1"
	keep_extracted  = false
	default_range   = [1, 10]
	ignore_patterns = ["__MACOSX/**"]

	sheet {
	  header_scan_rows = 5
	  id_column        = "C"
	}
*/
package config
