// Package services holds the application core of codeg: the company
// profile service, the result set controller that owns analysis state,
// and the settings service.
//
// Services depend only on driven ports. Adapters supply storage, the
// analysis client and configuration at startup.
package services
