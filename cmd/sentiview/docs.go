package main

// General API documentation for swaggo. The document served under /swagger/ is
// internal/httpapi/openapi.json (build with -tags=swagger).
//
// @title           sentiview API
// @version         1.0
// @description     Sentiment playground over a remote text classifier.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
