package main

// General API documentation for swaggo. Run `make swagger-gen` to regenerate docs.
//
// @title           ggufmem API
// @version         1.0
// @description     HTTP API for estimating peak memory usage of GGUF transformer models.
//
// @contact.name   ggufmem maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
