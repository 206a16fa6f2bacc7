package handlers

import "homeport/models"

// siteProjects is the static portfolio surfaced by site search.
var siteProjects = []models.Project{
	{
		Name: "ClearProxy",
		Description: "A modern, intuitive web UI for managing Caddy reverse proxies. " +
			"Features automatic HTTPS, real-time configuration, basic auth support, " +
			"and a clean SvelteKit + Tailwind interface.",
		Link: models.ProjectLink{
			Href:  "https://github.com/foggymtndrifter/ClearProxy",
			Label: "github.com",
		},
	},
	{
		Name: "rockylinux.org",
		Description: "The official website of the Rocky Linux project, built with Next.js, " +
			"Tailwind CSS, and shadcn/ui. Serves as the initial point of contact for users, " +
			"and is the source of truth for information.",
		Link: models.ProjectLink{
			Href:  "https://github.com/rocky-linux/rockylinux.org",
			Label: "github.com",
		},
	},
	{
		Name: "asknot-rocky",
		Description: "This interactive guide helps newcomers find their place in the Rocky Linux " +
			"community by asking a series of questions about their interests and skills.",
		Link: models.ProjectLink{
			Href:  "https://github.com/rocky-linux/asknot-rocky",
			Label: "github.com",
		},
	},
}
