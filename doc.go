// Package portfolio values a personal multi-currency portfolio of buys and
// reconstructs its history.
//
// The package is organised leaf first:
//   - Normalization: NormalizeAmount, NormalizeDate and ParseTransaction turn
//     loosely typed records into Transactions, degrading malformed input to
//     defaults and reporting it as Issues.
//   - Resolution: ResolvePrice, ResolveFX and FindFXColumn pick the best
//     available price or rate in a MarketData snapshot.
//   - Valuation: Valuate values every position today.
//   - History: Reconstruct rebuilds the equity, cost and per symbol
//     contribution curves over the price history.
//   - Analytics: ROI, Drawdown, BenchmarkROI and DailyChange derive figures
//     from the curves.
//
// NewDashboard bundles all of them. Load fills a MarketData from a Source,
// retrying failed fetches a bounded number of times.
//
// Nothing in this package panics or returns an error on bad data: problems
// are collected as Issues for the caller to display.
package portfolio
