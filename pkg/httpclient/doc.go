// Package httpclient builds the harness HTTP client from the timeouts the
// resolver writes into config.ClientSettings.
//
//	var settings config.ClientSettings
//	record := config.NewResolver(nil, log).Resolve(os.Getenv("KARATE_ENV"), &settings)
//	client := httpclient.New(settings)
package httpclient
