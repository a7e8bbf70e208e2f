// Package dataprocessing turns marketplace financial export workbooks into
// the in-memory record set consumed by the analysis pipeline.
//
// # Components
//
//  1. ReadTable: reads the first worksheet of an xlsx workbook (excelize) into
//     a header plus string rows.
//  2. RecordLoader: renames source headers to canonical names, concatenates
//     every report in order and converts rows into domain.Record values.
//  3. CostLoader: reads the optional purchase cost workbook and averages the
//     unit cost per SKU.
//
// # Usage
//
//	loader := dataprocessing.NewRecordLoader(logger)
//	set, err := loader.Load(ctx, []dataprocessing.Source{{Name: "w1.xlsx", Reader: f}})
//
//	costs, err := dataprocessing.NewCostLoader(logger).Load(ctx, "cost.xlsx", cf)
//	if errors.IsType(err, errors.ErrTypeSchemaMismatch) {
//	    // continue with an empty cost table
//	}
//
// # Error Handling
//
// A report that is not a workbook, has no header row, or a concatenated set
// missing reason_for_payment, logistics_fee_type or barcode fails with a
// MISSING_STRUCTURE error. A cost workbook without recognizable SKU and cost
// columns fails with SCHEMA_MISMATCH, which callers are expected to recover
// from. Numeric cells that cannot be parsed read as zero.
package dataprocessing
