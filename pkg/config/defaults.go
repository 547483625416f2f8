package config

// Default generation shape, matching the largest published fixture set.
const (
	DefaultSeed                = int64(2026)
	DefaultBranchCount         = 40
	DefaultCategoriesPerBranch = 5
	DefaultSitesPerCategory    = 10
	DefaultBaseDate            = "2026-01-01"
)

// Default site settings.
const (
	DefaultTitle       = "Global Web Directory"
	DefaultDescription = "Massive categorized directory of websites, branches, and resources."
	DefaultBaseURL     = "http://localhost:8080"
	DefaultOutputDir   = "dist"
	DefaultListenAddr  = ":8080"
	DefaultDataPath    = "/data/directory.json"
)

// DefaultBranches is the built-in branch name table.
func DefaultBranches() []BranchTemplate {
	return []BranchTemplate{
		{"AI & Machine Learning", "Artificial intelligence and machine learning tools", "Brain"},
		{"Web Development", "Frontend, backend, and full-stack development", "Code"},
		{"Mobile Apps", "iOS, Android, and cross-platform apps", "Smartphone"},
		{"Cloud Computing", "AWS, Azure, GCP and cloud services", "Cloud"},
		{"Cybersecurity", "Security tools and protection systems", "Shield"},
		{"Data Science", "Analytics, visualization, and big data", "BarChart3"},
		{"DevOps", "CI/CD, deployment, and infrastructure", "GitBranch"},
		{"Blockchain", "Crypto, Web3, and decentralized apps", "Blocks"},
		{"IoT & Hardware", "Smart devices and hardware integration", "Cpu"},
		{"Game Development", "Game engines, assets, and development", "Gamepad2"},
		{"E-Commerce", "Online stores and marketplace tools", "ShoppingCart"},
		{"Marketing Tools", "Advertising, SEO, and growth tools", "Megaphone"},
		{"Design & Creative", "UI/UX, graphics, and creative software", "Palette"},
		{"Productivity", "Task management and efficiency tools", "Zap"},
		{"Communication", "Chat, video, and collaboration tools", "MessageCircle"},
		{"Finance & Fintech", "Banking, payments, and financial tools", "DollarSign"},
		{"Healthcare Tech", "Medical, health, and wellness tech", "Heart"},
		{"EdTech", "Learning platforms and educational tools", "GraduationCap"},
		{"HR & Recruitment", "Hiring, onboarding, and HR management", "Users"},
		{"Legal Tech", "Contracts, compliance, and legal tools", "Scale"},
		{"Real Estate Tech", "Property management and real estate", "Building2"},
		{"Travel Tech", "Booking, planning, and travel services", "Plane"},
		{"Food & Delivery", "Restaurants, delivery, and food tech", "UtensilsCrossed"},
		{"Social Media", "Social networks and community tools", "Share2"},
		{"Entertainment", "Streaming, media, and entertainment", "Film"},
		{"Music & Audio", "Audio production and music tools", "Music"},
		{"Video & Streaming", "Video editing and streaming platforms", "Video"},
		{"Photography", "Photo editing and image management", "Camera"},
		{"Writing & Content", "Content creation and writing tools", "PenTool"},
		{"SEO & Analytics", "Search optimization and web analytics", "Search"},
		{"Project Management", "Team coordination and project tracking", "Kanban"},
		{"CRM & Sales", "Customer management and sales tools", "UserCheck"},
		{"Customer Support", "Help desk and support solutions", "Headphones"},
		{"Automation", "Workflow automation and integration", "Bot"},
		{"No-Code Tools", "Build without code platforms", "Wand2"},
		{"APIs & Integration", "API management and connections", "Plug"},
		{"Testing & QA", "Testing frameworks and QA tools", "TestTube"},
		{"Documentation", "Knowledge base and documentation", "FileText"},
		{"Version Control", "Git, repos, and code management", "GitFork"},
		{"Hosting & Servers", "Web hosting and server management", "Server"},
	}
}

// DefaultCategories is the built-in category template table. Each row is
// combined with the owning branch name as "<prefix> <branch> <suffix>".
func DefaultCategories() []CategoryTemplate {
	return []CategoryTemplate{
		{Prefix: "Core", Suffix: "Tools", Icon: "Folder"},
		{Prefix: "Advanced", Suffix: "Solutions", Icon: "Layers"},
		{Prefix: "Pro", Suffix: "Platforms", Icon: "Box"},
		{Prefix: "Essential", Suffix: "Services", Icon: "Grid3X3"},
		{Prefix: "Premium", Suffix: "Systems", Icon: "LayoutGrid"},
	}
}

// DefaultSites is the built-in site name-part table.
func DefaultSites() []SiteTemplate {
	return []SiteTemplate{
		{"Alpha"}, {"Beta"}, {"Gamma"}, {"Delta"}, {"Epsilon"},
		{"Zeta"}, {"Eta"}, {"Theta"}, {"Iota"}, {"Kappa"},
	}
}

// DefaultTargets lists the data artifacts written when none are configured.
func DefaultTargets() []string {
	return []string{"json", "ts", "nested", "sites"}
}
