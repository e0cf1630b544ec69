// Package prompt renders the fixed instruction templates sent to the model
// gateway. Every builder is a pure function of its input.
//
// User supplied text (resume fields, job descriptions, extracted upload text)
// is interpolated verbatim. Nothing here escapes or fences it, so any of it
// can override the instructions around it. Callers must treat model output as
// untrusted.
package prompt

import (
	"strings"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
)

const listSep = ", "

type SummaryInput struct {
	FullName   string
	Skills     []string
	Experience []resume.Experience
	Projects   []resume.Project
}

type CoverLetterInput struct {
	FullName    string
	Skills      []string
	Experience  []resume.Experience
	JobTitle    string
	CompanyName string
}

type ATSInput struct {
	ResumeText     string
	JobDescription string
}

func Summary(in SummaryInput) string {
	var b strings.Builder
	b.WriteString("Create a professional resume summary for " + in.FullName + ".\n")
	b.WriteString("Skills: " + strings.Join(in.Skills, listSep) + "\n")
	b.WriteString("Experience: " + experienceLine(in.Experience) + "\n")
	b.WriteString("Projects: " + projectTitles(in.Projects) + "\n")
	b.WriteString("Keep it concise (3-4 sentences).")
	return b.String()
}

func CoverLetter(in CoverLetterInput) string {
	var b strings.Builder
	b.WriteString("Write a personalized cover letter for " + in.FullName +
		" applying for the role of " + in.JobTitle + " at " + in.CompanyName + ".\n")
	b.WriteString("Highlight relevant skills: " + strings.Join(in.Skills, listSep) + "\n")
	b.WriteString("and experience: " + experienceLine(in.Experience) + ".\n")
	b.WriteString("Keep it formal, professional, and 3-4 short paragraphs.")
	return b.String()
}

func ATSScore(in ATSInput) string {
	var b strings.Builder
	b.WriteString("You are an ATS (Applicant Tracking System).\n")
	b.WriteString("Compare the following resume with the job description.\n")
	b.WriteString("Resume: " + in.ResumeText + "\n")
	b.WriteString("Job Description: " + in.JobDescription + "\n\n")
	b.WriteString("1. Score the match (0-100).\n")
	b.WriteString("2. List key strengths.\n")
	b.WriteString("3. List weaknesses and missing keywords.")
	return b.String()
}

func Analytics(resumeText string) string {
	var b strings.Builder
	b.WriteString("Analyze the following resume text:\n")
	b.WriteString(resumeText + "\n\n")
	b.WriteString("Provide:\n")
	b.WriteString("- Strengths (bullet points)\n")
	b.WriteString("- Weaknesses (bullet points)\n")
	b.WriteString("- Suggestions to improve\n")
	b.WriteString("Format output in structured markdown.")
	return b.String()
}

// ATSAgainstUpload scores the text of a stored upload. The answer is asked to
// open with the number so ats.ParseScore finds it first.
func ATSAgainstUpload(in ATSInput) string {
	var b strings.Builder
	b.WriteString("Compare the following resume with the given job description.\n")
	b.WriteString("Give a score out of 100 based on ATS (Applicant Tracking System) standards\n")
	b.WriteString("and also list matching skills, missing skills, and recommendations.\n")
	b.WriteString("Begin the answer with the score as a bare number.\n\n")
	b.WriteString("Resume:\n" + in.ResumeText + "\n\n")
	b.WriteString("Job Description:\n" + in.JobDescription)
	return b.String()
}

func experienceLine(exp []resume.Experience) string {
	parts := make([]string, len(exp))
	for i, e := range exp {
		parts[i] = e.Role + " at " + e.Company
	}
	return strings.Join(parts, listSep)
}

func projectTitles(projects []resume.Project) string {
	parts := make([]string, len(projects))
	for i, p := range projects {
		parts[i] = p.Title
	}
	return strings.Join(parts, listSep)
}
