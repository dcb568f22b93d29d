package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "WanderPets Admin API",
        "description": "Record lifecycle and archival workflow of the WanderPets admin console",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Admin sessions"},
        {"name": "Records", "description": "Pet, application and rescue report listings"},
        {"name": "Lifecycle", "description": "Status transitions, archival and purge"},
        {"name": "History", "description": "Archived records and exports"},
        {"name": "Users", "description": "Adopters and admin accounts"},
        {"name": "Content", "description": "Articles and vet clinics"},
        {"name": "Catalog", "description": "Static lookup data"},
        {"name": "Media", "description": "Image uploads"},
        {"name": "Outbox", "description": "Adopted snapshot replay"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "Access token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Logout", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Session closed"}}}
        },
        "/auth/me": {
            "get": {"tags": ["Auth"], "summary": "Current admin", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/dashboard": {
            "get": {"tags": ["Records"], "summary": "Dashboard counters", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/records/{collection}": {
            "get": {
                "tags": ["Records"],
                "summary": "List pet records",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "path", "name": "collection", "type": "string", "required": true},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "pageSize", "type": "integer"}
                ],
                "responses": {"200": {"description": "Rows", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/records/{collection}/{id}": {
            "get": {"tags": ["Records"], "summary": "Get record", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {
                "tags": ["Lifecycle"],
                "summary": "Archive and delete record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "confirm", "type": "boolean", "required": true}],
                "responses": {"200": {"description": "Archived"}, "409": {"description": "Already archived"}, "428": {"description": "Confirmation required"}}
            }
        },
        "/records/{collection}/{id}/viewed": {
            "post": {"tags": ["Records"], "summary": "Mark record viewed", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Marked"}}}
        },
        "/adoption-applications": {
            "get": {"tags": ["Records"], "summary": "List adoption applications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/adoption-applications/{id}/status": {
            "patch": {
                "tags": ["Lifecycle"],
                "summary": "Change application status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StatusChangeRequest"}}],
                "responses": {"200": {"description": "Status updated"}, "409": {"description": "Invalid transition"}}
            }
        },
        "/rescue-reports": {
            "get": {"tags": ["Records"], "summary": "List rescue reports", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/rescue-reports/{id}/status": {
            "patch": {
                "tags": ["Lifecycle"],
                "summary": "Change rescue report status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StatusChangeRequest"}}],
                "responses": {"200": {"description": "Status updated"}, "409": {"description": "Invalid transition"}}
            }
        },
        "/history": {
            "get": {"tags": ["History"], "summary": "List archived records", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/history/{collection}/{id}": {
            "delete": {"tags": ["Lifecycle"], "summary": "Purge archived record", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Record permanently deleted!"}}}
        },
        "/history/{collection}/exports": {
            "post": {"tags": ["History"], "summary": "Export archived records", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Signed download link"}}}
        },
        "/history/exports/{token}": {
            "get": {"tags": ["History"], "summary": "Download export", "security": [{"BearerAuth": []}], "produces": ["text/csv", "application/pdf"], "responses": {"200": {"description": "File"}, "401": {"description": "Invalid or expired link"}}}
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List adopters", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/users/{email}": {
            "get": {"tags": ["Users"], "summary": "User profile with pets", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "404": {"description": "User not found"}}}
        },
        "/admins": {
            "post": {"tags": ["Users"], "summary": "Create admin account", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Email taken"}}}
        },
        "/audit-logs": {
            "get": {"tags": ["Users"], "summary": "Recent audit entries", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/content/articles": {
            "get": {"tags": ["Content"], "summary": "List articles", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Publish article", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Article published successfully!"}}}
        },
        "/content/clinics": {
            "get": {"tags": ["Content"], "summary": "List vet clinics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Content"], "summary": "Add vet clinic", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Clinic added successfully!"}}}
        },
        "/catalog/breeds": {
            "get": {"tags": ["Catalog"], "summary": "Breeds by pet type", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/catalog/statuses/{workflow}": {
            "get": {"tags": ["Catalog"], "summary": "Status options", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/media": {
            "post": {
                "tags": ["Media"],
                "summary": "Upload image",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "type": "file", "required": true},
                    {"in": "formData", "name": "folder", "type": "string"}
                ],
                "responses": {"201": {"description": "Uploaded"}, "400": {"description": "Rejected file"}}
            }
        },
        "/outbox": {
            "get": {"tags": ["Outbox"], "summary": "Pending adopted snapshots", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/outbox/{id}/replay": {
            "post": {"tags": ["Outbox"], "summary": "Replay adopted snapshot", "security": [{"BearerAuth": []}], "responses": {"202": {"description": "Scheduled"}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "StatusChangeRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string"},
                "personnel": {"type": "string"},
                "rescuer": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "window": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
