// Package content содержит статичные тексты главной страницы, документации и демо.
package content

import (
	"strconv"
	"strings"
)

const (
	LandingTitle    = "University of Nevada, Reno"
	LandingSubtitle = "project by: Prastik Gyawali"

	DemoTitle       = "Improving Shape Awareness and Interpretability in Deep Networks Using Geometric Moments"
	PaperURL        = "https://openaccess.thecvf.com/content/CVPR2023W/DLGC/papers/Singh_Improving_Shape_Awareness_and_Interpretability_in_Deep_Networks_Using_Geometric_CVPRW_2023_paper.pdf"
	DemoPlaceholder = "Upload an image to see the DGM visualization results"
	DemoProcessing  = "Processing your image..."
	DemoUploading   = "Uploading..."
	DemoUpload      = "Upload Image"
	ResultsHeader   = "Results"

	DocsTitle = "ROS2 Docker Environment Documentation"
)

// Section раздел документации
type Section struct {
	Heading string
	Level   int
	Body    []string
	Bullets []string
}

// Docs страница документации в порядке чтения
var Docs = []Section{
	{
		Level: 0,
		Body: []string{
			"This project provides a containerized ROS2 Humble environment with essential packages for robotics development and web-based robot control.",
		},
	},
	{Heading: "Docker Configuration Overview", Level: 2},
	{
		Heading: "Base Image",
		Level:   3,
		Body: []string{
			"The container is built from the official ROS2 Humble minimal image (ros:humble-ros-core), providing a lightweight foundation for ROS2 development.",
		},
	},
	{
		Heading: "Environment Setup",
		Level:   3,
		Body: []string{
			"The Dockerfile sets DEBIAN_FRONTEND=noninteractive to ensure smooth package installation without interactive prompts during the build process.",
		},
	},
	{Heading: "Installed Packages", Level: 3},
	{
		Heading: "ROS2 Demo Nodes",
		Level:   4,
		Body: []string{
			"ros-humble-demo-nodes-cpp: Provides C++ example nodes for learning ROS2 concepts including publishers, subscribers, services, and actions.",
		},
	},
	{
		Heading: "Turtlesim Package",
		Level:   4,
		Body:    []string{"ros-humble-turtlesim: The classic turtle simulation for ROS2, perfect for:"},
		Bullets: []string{
			"Learning ROS2 basics - Topics, services, and parameter concepts",
			"Testing robot control - Movement commands and teleoperation",
			"Visualization - Simple 2D robot simulation environment",
		},
	},
	{
		Heading: "Rosbridge Server",
		Level:   4,
		Body:    []string{"ros-humble-rosbridge-server: Enables web-based robot control through:"},
		Bullets: []string{
			"WebSocket communication - Real-time bidirectional data exchange",
			"Web interface development - Build robot control dashboards in browsers",
			"Cross-platform integration - Connect web applications to ROS2 ecosystem",
		},
	},
	{
		Heading: "Container Entry Point",
		Level:   2,
		Body:    []string{"The container uses /ros_entrypoint.sh as the entry point, which:"},
		Bullets: []string{
			"Sources the ROS2 environment automatically",
			"Sets up necessary environment variables",
			"Provides a bash shell for interactive development",
		},
	},
	{Heading: "Usage Scenarios", Level: 2},
	{
		Heading: "Development Environment",
		Level:   3,
		Body:    []string{"Perfect for developers who want to:"},
		Bullets: []string{
			"Learn ROS2: Use turtlesim and demo nodes for hands-on learning",
			"Prototype quickly: Skip local ROS2 installation complexity",
			"Ensure consistency: Same environment across different machines",
		},
	},
	{
		Heading: "Web Integration",
		Level:   3,
		Body:    []string{"With rosbridge-server, you can:"},
		Bullets: []string{
			"Build web UIs for robot control and monitoring",
			"Create mobile apps that communicate with robots",
			"Develop cloud-based robotics solutions",
		},
	},
	{
		Heading: "Getting Started",
		Level:   2,
		Body: []string{
			"To use this containerized environment:",
			"docker build -t ros2-humble .",
			"docker run -it --rm ros2-humble",
			"This setup provides a complete ROS2 development environment with web connectivity capabilities, making it ideal for both learning robotics concepts and building production-ready robotic applications.",
		},
	},
}

// ResultLabel подпись к результату с индексом index (с нуля)
func ResultLabel(index int) string {
	return "Result " + strconv.Itoa(index+1)
}

// ErrorLabel текст ошибки так, как его показывает экран демо
func ErrorLabel(message string) string {
	return "Error: " + message
}

// DocsPlainText документация простым текстом
func DocsPlainText() string {
	var b strings.Builder
	b.WriteString(DocsTitle)
	b.WriteString("\n")
	for _, section := range Docs {
		if section.Heading != "" {
			b.WriteString("\n")
			b.WriteString(section.Heading)
			b.WriteString("\n")
		}
		for _, line := range section.Body {
			b.WriteString(line)
			b.WriteString("\n")
		}
		for _, bullet := range section.Bullets {
			b.WriteString("• ")
			b.WriteString(bullet)
			b.WriteString("\n")
		}
	}
	return b.String()
}
