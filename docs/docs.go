// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ping": {
            "get": {
                "tags": ["health"],
                "summary": "Ping",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/contact": {
            "post": {
                "tags": ["contact"],
                "summary": "Submit contact form",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation failed"},
                    "429": {"description": "Rate limit exceeded"}
                }
            }
        },
        "/api/v1/chat": {
            "post": {
                "tags": ["chat"],
                "summary": "Chat with the site assistant",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation failed"},
                    "429": {"description": "Rate limit exceeded"},
                    "502": {"description": "Chat service unavailable"}
                }
            }
        },
        "/api/v1/chat/log": {
            "post": {
                "tags": ["chat"],
                "summary": "Log a chat exchange (redacted)",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation failed"},
                    "429": {"description": "Rate limit exceeded"}
                }
            }
        },
        "/api/v1/analytics": {
            "post": {
                "tags": ["analytics"],
                "summary": "Ingest telemetry events",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation failed"},
                    "429": {"description": "Rate limit exceeded"}
                }
            }
        },
        "/api/v1/tips/checkout": {
            "post": {
                "tags": ["tips"],
                "summary": "Create a tip checkout session",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validation failed"},
                    "503": {"description": "Payments not configured"}
                }
            }
        },
        "/api/v1/webhooks/stripe": {
            "post": {
                "tags": ["webhooks"],
                "summary": "Stripe event webhook",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid signature"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "portfolio_api",
	Description:      "Gateway API for davidortiz.dev: contact, chat, analytics, tips.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
