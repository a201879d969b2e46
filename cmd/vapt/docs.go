package main

// @title Vapt Marketplace API
// @version 1.0
// @description Marketplace feed: accounts, listings, filtered feed and favorites
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
