package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Aegis Careers API",
        "description": "Job portal with guided mentorship sessions",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Account registration and login"},
        {"name": "Guides", "description": "Guide directory"},
        {"name": "Mentorship", "description": "Session request workflow"},
        {"name": "Sessions", "description": "Scheduled 1:1 sessions"},
        {"name": "Notifications", "description": "Dashboard notification feed"},
        {"name": "Jobs", "description": "Recruiter job postings"},
        {"name": "Companies", "description": "Company directory"},
        {"name": "Resume", "description": "Resume analysis and screening"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/guides": {
            "get": {
                "tags": ["Guides"],
                "summary": "List available guides",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/request-session": {
            "post": {
                "tags": ["Mentorship"],
                "summary": "Request a mentorship session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Guide not found"}
                }
            }
        },
        "/session-requests/{guide_id}": {
            "get": {
                "tags": ["Mentorship"],
                "summary": "List a guide's pending requests",
                "parameters": [
                    {"name": "guide_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session-requests/{id}/update": {
            "put": {
                "tags": ["Mentorship"],
                "summary": "Approve or reject a pending request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request already resolved (INVALID_STATE)"},
                    "502": {"description": "Decision partially applied (APPROVAL_INCOMPLETE)"}
                }
            }
        },
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List all sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Schedule a session directly",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/guide/{guide_id}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List a guide's sessions",
                "parameters": [
                    {"name": "guide_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/programmer": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List sessions the caller was invited to",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/{user_id}": {
            "get": {
                "tags": ["Notifications"],
                "summary": "List a user's notifications",
                "parameters": [
                    {"name": "user_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "put": {
                "tags": ["Notifications"],
                "summary": "Mark a notification as read",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Notification not found"}
                }
            }
        },
        "/companies": {
            "get": {
                "tags": ["Companies"],
                "summary": "List companies with their open roles",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jobs": {
            "get": {
                "tags": ["Jobs"],
                "summary": "List job postings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Jobs"],
                "summary": "Post or update a job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertJobRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/jobs/{id}": {
            "get": {
                "tags": ["Jobs"],
                "summary": "Fetch one job posting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Job not found"}
                }
            }
        },
        "/analyze-resume": {
            "post": {
                "tags": ["Resume"],
                "summary": "Score a resume against a job description",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "resume", "in": "formData", "required": true, "type": "file"},
                    {"name": "job_description", "in": "formData", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Scoring service unavailable"}
                }
            }
        },
        "/resume/screen": {
            "post": {
                "tags": ["Resume"],
                "summary": "Screen a batch of resumes",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "resumes", "in": "formData", "required": true, "type": "file"},
                    {"name": "job_description", "in": "formData", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/resume/screen/reports/{token}": {
            "get": {
                "tags": ["Resume"],
                "summary": "Download a screening report",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV report"},
                    "403": {"description": "Invalid or expired link"}
                }
            }
        },
        "/resume/job-finding": {
            "post": {
                "tags": ["Resume"],
                "summary": "Match a resume against stored postings",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "resume", "in": "formData", "required": true, "type": "file"},
                    {"name": "job_description", "in": "formData", "required": false, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["programmer", "recruiter", "guide"]}
            },
            "required": ["name", "email", "password", "role"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["programmer", "recruiter", "guide"]}
            },
            "required": ["email", "password", "role"]
        },
        "SubmitRequestRequest": {
            "type": "object",
            "properties": {
                "guide_id": {"type": "string"},
                "programmer_id": {"type": "string"}
            },
            "required": ["guide_id"]
        },
        "DecisionRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "meeting_link": {"type": "string"}
            },
            "required": ["status"]
        },
        "CreateSessionRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "meeting_link": {"type": "string"},
                "guide_id": {"type": "string"},
                "programmer_email": {"type": "string"}
            },
            "required": ["title", "description", "meeting_link", "programmer_email"]
        },
        "UpsertJobRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "company_name": {"type": "string"},
                "requirements": {"type": "string"},
                "location": {"type": "string"}
            },
            "required": ["title", "description", "company_name"]
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
                "error": {"$ref": "#/definitions/APIError"},
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
