// Package analysis reconciles a loaded record set into per-SKU, fee,
// profit and regional tables.
//
// Every aggregator is a pure function over immutable inputs. Joins are outer
// joins over the union of SKUs with missing values treated as zero, except
// ProfitBySKU which keeps only SKUs that had net sales activity. Rates and
// per-unit values are rounded to four places; a zero denominator yields zero,
// except the discount rate which is null.
//
// Analyzer strings the stages together:
//
//	sku aggregates -> regional tables -> profit -> fee summary -> overview
//
// The fee taxonomy and the region classifier are injected read-only lookup
// services.
package analysis
